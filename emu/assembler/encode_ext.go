/*
	M65832 Assembler Toolchain - Extended-plane encoder

	Copyright (c) 2024, Richard Cornwell

	Permission is hereby granted, free of charge, to any person obtaining a
	copy of this software and associated documentation files (the "Software"),
	to deal in the Software without restriction, including without limitation
	the rights to use, copy, modify, merge, publish, distribute, sublicense,
	and/or sell copies of the Software, and to permit persons to whom the
	Software is furnished to do so, subject to the following conditions:

	The above copyright notice and this permission notice shall be included in
	all copies or substantial portions of the Software.

	THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
	IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
	FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
	RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
	IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
	CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/
package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/m65832asm/emu/opcodemap"
	"github.com/rcornwell/m65832asm/emu/operand"
	"github.com/rcornwell/m65832asm/emu/scanner"
)

// splitTopComma splits str at the first comma that is not inside ()/[],
// mirroring the bracket-awareness operand.Parse itself needs.
func splitTopComma(str string) (string, string, bool) {
	depth := 0
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(str[:i]), strings.TrimSpace(str[i+1:]), true
			}
		}
	}
	return strings.TrimSpace(str), "", false
}

// encodeExtALU encodes an extended-ALU meta-plane instruction. Destination/
// source operand ordering (a register-file destination, or the implicit A,
// named first; the addressing-mode operand named second — reversed for
// ST/TSB/TRB/STZ, whose addressing mode names the memory destination and
// whose second operand, if present, is the source register) is recorded in
// DESIGN.md.
func (a *Assembler) encodeExtALU(mnemonic string, rest string, suffix string) ([]byte, error) {
	op, ok := opcodemap.ALUOpcode(mnemonic)
	if !ok {
		return nil, fmt.Errorf("unknown extended-ALU mnemonic %s", mnemonic)
	}
	size := opcodemap.Size16
	switch suffix {
	case "B":
		size = opcodemap.Size8
	case "W":
		size = opcodemap.Size16
	default:
		if a.M == 32 {
			size = opcodemap.Size32
		} else if a.M == 8 {
			size = opcodemap.Size8
		}
	}

	memDest := opcodemap.ALUTakesMemDest(mnemonic)
	needsSrc := opcodemap.ALURequiresSource(mnemonic)

	first, second, hasSecond := splitTopComma(rest)
	if first == "" {
		return nil, fmt.Errorf("%s requires an operand", mnemonic)
	}

	var target bool
	var destByte byte
	var addrTok string

	switch {
	case !needsSrc:
		// Unary: single operand is both the addressed location and the
		// implicit destination; target=0, addressing-mode-index=0 for the
		// accumulator case.
		target = false
		addrTok = first
	case memDest:
		addrTok = first
		if hasSecond {
			regVal, ok := scanner.RegisterAlias(second)
			if !ok {
				return nil, fmt.Errorf("expected a register name, got %q", second)
			}
			target = true
			destByte = byte(regVal)
		}
	default:
		if hasSecond {
			if regVal, ok := scanner.RegisterAlias(first); ok {
				target = true
				destByte = byte(regVal)
			} else if first != "A" && first != "a" {
				return nil, fmt.Errorf("expected A or a register name, got %q", first)
			}
			addrTok = second
		} else {
			addrTok = first
		}
	}

	idx, srcVal, err := a.classifyALUOperand(addrTok)
	if err != nil {
		return nil, err
	}

	modeByte := opcodemap.ALUModeByte(size, target, idx)
	out := []byte{opcodemap.ExtPrefix, op, modeByte}
	if target {
		out = append(out, destByte)
	}
	tailLen := opcodemap.ALUOperandLen(idx, size)
	for i := 0; i < tailLen; i++ {
		out = append(out, byte(srcVal>>(8*i)))
	}
	return out, nil
}

// classifyALUOperand resolves addrTok into an addressing-mode index and its
// numeric payload, covering the register pseudo-operands (A/X/Y) the
// general operand parser does not know about.
func (a *Assembler) classifyALUOperand(tok string) (opcodemap.ALUModeIndex, uint32, error) {
	switch tok {
	case "A", "a":
		return opcodemap.ALUIdxA, 0, nil
	case "X", "x":
		return opcodemap.ALUIdxX, 0, nil
	case "Y", "y":
		return opcodemap.ALUIdxY, 0, nil
	}
	v, err := operand.Parse(tok, a)
	if err != nil {
		return 0, 0, err
	}
	idx, ok := opcodemap.ModeToALUIndex(v.Mode)
	if !ok {
		return 0, 0, fmt.Errorf("addressing mode not valid in the extended-ALU plane")
	}
	return idx, v.Primary.Value, nil
}

// encodeExtDirect encodes a direct extended instruction: multiply/divide,
// atomics, fences, base-register control, stack ops, LDQ/STQ, LEA, TAT/TTA,
// TRAP, REPE/SEPE.
func (a *Assembler) encodeExtDirect(mnemonic string, rest string) ([]byte, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		op, ok := opcodemap.ExtEncode(mnemonic, opcodemap.ExtImplied)
		if !ok {
			return nil, fmt.Errorf("%s requires an operand", mnemonic)
		}
		return []byte{opcodemap.ExtPrefix, op}, nil
	}

	v, err := operand.Parse(rest, a)
	if err != nil {
		return nil, err
	}
	val := v.Primary.Value

	var shape opcodemap.ExtOperand
	switch v.Mode {
	case opcodemap.ModeImmediate:
		shape = opcodemap.ExtImm8
	case opcodemap.ModeDirect:
		shape = opcodemap.ExtDP
	case opcodemap.ModeAbsolute:
		shape = opcodemap.ExtAbs
	default:
		return nil, fmt.Errorf("addressing mode not valid for %s", mnemonic)
	}
	// SVBR/SB/SD take a 32-bit quad regardless of the parsed mode's own
	// natural width.
	if _, ok := opcodemap.ExtEncode(mnemonic, opcodemap.ExtQuad32); ok {
		shape = opcodemap.ExtQuad32
	}

	op, ok := opcodemap.ExtEncode(mnemonic, shape)
	if !ok {
		return nil, fmt.Errorf("addressing mode not valid for %s", mnemonic)
	}
	out := []byte{opcodemap.ExtPrefix, op}
	n := opcodemap.ExtOperandLen(shape)
	for i := 0; i < n; i++ {
		out = append(out, byte(val>>(8*i)))
	}
	return out, nil
}

// parseFReg parses a leading "Fn" register token (n in 0..15).
func parseFReg(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if len(tok) < 2 || (tok[0] != 'F' && tok[0] != 'f') {
		return 0, false
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 0 || n > 15 {
		return 0, false
	}
	return n, true
}

// encodeFPU encodes an FPU instruction.
func (a *Assembler) encodeFPU(mnemonic string, rest string) ([]byte, error) {
	first, second, hasSecond := splitTopComma(rest)

	if dst, ok := parseFReg(first); ok {
		if !hasSecond {
			op, ok := opcodemap.FPUEncode(mnemonic, opcodemap.FPUOneReg)
			if !ok {
				return nil, fmt.Errorf("%s requires a register operand", mnemonic)
			}
			return []byte{opcodemap.ExtPrefix, op, byte(dst << 4)}, nil
		}
		if src, ok := parseFReg(second); ok {
			op, ok := opcodemap.FPUEncode(mnemonic, opcodemap.FPUTwoReg)
			if !ok {
				return nil, fmt.Errorf("%s requires two register operands", mnemonic)
			}
			return []byte{opcodemap.ExtPrefix, op, byte(dst<<4) | byte(src)}, nil
		}
		return a.encodeFPUMemory(mnemonic, dst, second)
	}
	return nil, fmt.Errorf("expected a register operand for %s", mnemonic)
}

// encodeFPUMemory encodes LDF/STF's dp, absolute, 32-bit-absolute, and
// register-indirect "(Rm)" forms.
func (a *Assembler) encodeFPUMemory(mnemonic string, reg int, addrTok string) ([]byte, error) {
	addrTok = strings.TrimSpace(addrTok)
	if strings.HasPrefix(addrTok, "(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(addrTok, "("), ")")
		regVal, ok := scanner.RegisterAlias(inner)
		if !ok {
			return nil, fmt.Errorf("expected a register name inside (), got %q", inner)
		}
		rm := regVal / 4
		if rm > 15 {
			return nil, fmt.Errorf("register-indirect FPU operand must be R0..R15")
		}
		op, ok := opcodemap.FPUEncode(mnemonic, opcodemap.FPUMemInd)
		if !ok {
			return nil, fmt.Errorf("register-indirect addressing not valid for %s", mnemonic)
		}
		return []byte{opcodemap.ExtPrefix, op, byte(reg<<4) | byte(rm)}, nil
	}

	v, err := operand.Parse(addrTok, a)
	if err != nil {
		return nil, err
	}
	var shape opcodemap.FPUShape
	switch v.Mode {
	case opcodemap.ModeDirect:
		shape = opcodemap.FPUMemDP
	case opcodemap.ModeAbsolute:
		shape = opcodemap.FPUMemAbs
	case opcodemap.ModeAbsoluteLong, opcodemap.ModeAbsolute32:
		shape = opcodemap.FPUMemAbs32
	default:
		return nil, fmt.Errorf("addressing mode not valid for %s", mnemonic)
	}
	op, ok := opcodemap.FPUEncode(mnemonic, shape)
	if !ok {
		return nil, fmt.Errorf("addressing mode not valid for %s", mnemonic)
	}
	out := []byte{opcodemap.ExtPrefix, op, byte(reg)}
	val := v.Primary.Value
	switch shape {
	case opcodemap.FPUMemDP:
		out = append(out, byte(val))
	case opcodemap.FPUMemAbs:
		out = append(out, byte(val), byte(val>>8))
	case opcodemap.FPUMemAbs32:
		out = append(out, byte(val), byte(val>>8), byte(val>>16), byte(val>>24))
	}
	return out, nil
}

// encodeBarrel encodes a barrel-shifter instruction: "OP dst, src, count"
// or "OP dst, src, A" (count from accumulator).
func (a *Assembler) encodeBarrel(mnemonic string, rest string) ([]byte, error) {
	shiftOp, ok := opcodemap.ShiftOpFromMnemonic(mnemonic)
	if !ok {
		return nil, fmt.Errorf("unknown barrel-shifter mnemonic %s", mnemonic)
	}
	dstTok, rem, ok := splitTopComma(rest)
	if !ok {
		return nil, fmt.Errorf("%s requires dst, src, count operands", mnemonic)
	}
	srcTok, countTok, ok := splitTopComma(rem)
	if !ok {
		return nil, fmt.Errorf("%s requires dst, src, count operands", mnemonic)
	}
	dst, ok := scanner.RegisterAlias(dstTok)
	if !ok {
		return nil, fmt.Errorf("expected a register name, got %q", dstTok)
	}
	src, ok := scanner.RegisterAlias(srcTok)
	if !ok {
		return nil, fmt.Errorf("expected a register name, got %q", srcTok)
	}
	var count byte
	if countTok == "A" || countTok == "a" {
		count = opcodemap.CountFromA
	} else {
		v, _, err := scanner.Eval(strings.TrimPrefix(countTok, "#"), a)
		if err != nil {
			return nil, err
		}
		count = byte(v.Value)
	}
	return []byte{
		opcodemap.ExtPrefix, opcodemap.OpBarrelShifter,
		opcodemap.EncodeShiftByte(shiftOp, count),
		byte(dst), byte(src),
	}, nil
}

// encodeBitField encodes a bit-field-extension instruction: "OP dst, src".
func (a *Assembler) encodeBitField(mnemonic string, rest string) ([]byte, error) {
	bitOp, ok := opcodemap.BitFieldOpFromMnemonic(mnemonic)
	if !ok {
		return nil, fmt.Errorf("unknown bit-field mnemonic %s", mnemonic)
	}
	dstTok, srcTok, ok := splitTopComma(rest)
	if !ok {
		return nil, fmt.Errorf("%s requires dst, src operands", mnemonic)
	}
	dst, ok := scanner.RegisterAlias(dstTok)
	if !ok {
		return nil, fmt.Errorf("expected a register name, got %q", dstTok)
	}
	src, ok := scanner.RegisterAlias(srcTok)
	if !ok {
		return nil, fmt.Errorf("expected a register name, got %q", srcTok)
	}
	return []byte{
		opcodemap.ExtPrefix, opcodemap.OpBitField,
		byte(bitOp), byte(dst), byte(src),
	}, nil
}
