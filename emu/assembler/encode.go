/*
	M65832 Assembler Toolchain - Instruction encoder

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
	"strings"

	"github.com/rcornwell/m65832asm/emu/opcodemap"
	"github.com/rcornwell/m65832asm/emu/operand"
)

// memAccOps take a width-sensitive immediate sized from M.
var memAccOps = map[string]bool{
	"LDA": true, "STA": false, "ADC": true, "SBC": true,
	"AND": true, "ORA": true, "EOR": true, "CMP": true, "BIT": true,
}

// idxOps take a width-sensitive immediate sized from X.
var idxOps = map[string]bool{"LDX": true, "LDY": true, "CPX": true, "CPY": true}

// always1ByteImm are always a 1-byte immediate regardless of M/X.
var always1ByteImm = map[string]bool{
	"REP": true, "SEP": true, "COP": true, "TRAP": true, "REPE": true, "SEPE": true,
	"WDM": true,
}

// encodeStd encodes a standard-plane (or branch) instruction. It returns the
// emitted bytes, or an error diagnostic message.
func (a *Assembler) encodeStd(mnemonic string, v operand.Value, suffix string) ([]byte, error) {
	if opcodemap.IsShortBranch(mnemonic) {
		return a.encodeBranch(mnemonic, v)
	}
	if mnemonic == "MVP" || mnemonic == "MVN" {
		if v.Mode != opcodemap.ModeBlockMove {
			return nil, fmt.Errorf("%s requires a src,dst operand", mnemonic)
		}
		op, _ := opcodemap.StdEncode(mnemonic, opcodemap.ModeBlockMove)
		// wire order is opcode, dst, src; source syntax is src,dst.
		return []byte{op, byte(v.Secondary.Value), byte(v.Primary.Value)}, nil
	}

	if mnemonic == "WDM" && a.is32() {
		return nil, fmt.Errorf("WDM is reserved in 32-bit mode")
	}

	mode := v.Mode
	op, ok := opcodemap.StdEncode(mnemonic, mode)
	if !ok {
		promoted, pok := promoteMode(mode)
		if pok {
			if op2, ok2 := opcodemap.StdEncode(mnemonic, promoted); ok2 {
				op, ok, mode = op2, true, promoted
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("addressing mode not valid for %s", mnemonic)
	}

	if mode == opcodemap.ModeImmediate {
		return a.encodeImmediate(mnemonic, op, v, suffix)
	}

	if (mnemonic == "WAI" || mnemonic == "STP") && a.is32() {
		if mnemonic == "WAI" {
			return []byte{0x42, 0xCB}, nil
		}
		return []byte{0x42, 0xDB}, nil
	}

	return a.encodeOperandBytes(op, mode, v)
}

// promoteMode widens a mode one step (dp -> abs, dp-indexed -> abs-indexed,
// ind -> abs-indirect) so an instruction that doesn't support a direct-page
// form gets one retry at the wider encoding.
func promoteMode(mode opcodemap.Mode) (opcodemap.Mode, bool) {
	switch mode {
	case opcodemap.ModeDirect:
		return opcodemap.ModeAbsolute, true
	case opcodemap.ModeDirectX:
		return opcodemap.ModeAbsoluteX, true
	case opcodemap.ModeDirectY:
		return opcodemap.ModeAbsoluteY, true
	case opcodemap.ModeDirectInd:
		return opcodemap.ModeAbsoluteInd, true
	case opcodemap.ModeDirectIndX:
		return opcodemap.ModeAbsoluteIndX, true
	case opcodemap.ModeDirectIndLong:
		return opcodemap.ModeAbsoluteIndLong, true
	}
	return mode, false
}

func (a *Assembler) is32() bool { return a.M == 32 || a.X == 32 }

// encodeImmediate sizes an immediate operand from M/X width and the
// instruction's own exceptions.
func (a *Assembler) encodeImmediate(mnemonic string, op byte, v operand.Value, suffix string) ([]byte, error) {
	width := a.M
	if idxOps[mnemonic] {
		width = a.X
	}
	if always1ByteImm[mnemonic] {
		width = 8
	}
	if mnemonic == "PEA" {
		width = 16
	}
	switch suffix {
	case "B":
		width = 8
	case "W":
		width = 16
	case "L":
		width = 32
	}
	n := width / 8
	out := make([]byte, 1+n)
	out[0] = op
	val := v.Primary.Value
	for i := 0; i < n; i++ {
		out[1+i] = byte(val >> (8 * i))
	}
	return out, nil
}

// encodeOperandBytes emits the opcode followed by the little-endian operand
// bytes appropriate to mode, enforcing the 32-bit-mode addressing
// constraints.
func (a *Assembler) encodeOperandBytes(op byte, mode opcodemap.Mode, v operand.Value) ([]byte, error) {
	val := v.Primary.Value
	switch mode {
	case opcodemap.ModeImplied, opcodemap.ModeAccumulator:
		return []byte{op}, nil
	case opcodemap.ModeDirect, opcodemap.ModeDirectX, opcodemap.ModeDirectY,
		opcodemap.ModeDirectIndX, opcodemap.ModeDirectIndY, opcodemap.ModeDirectInd,
		opcodemap.ModeDirectIndLong, opcodemap.ModeDirectIndLongY,
		opcodemap.ModeStackRel, opcodemap.ModeStackRelIndY:
		if a.is32() && val%4 != 0 {
			return nil, fmt.Errorf("unaligned direct-page address in 32-bit mode")
		}
		return []byte{op, byte(val)}, nil
	case opcodemap.ModeAbsolute, opcodemap.ModeAbsoluteX, opcodemap.ModeAbsoluteY,
		opcodemap.ModeAbsoluteInd, opcodemap.ModeAbsoluteIndX:
		if a.is32() && !v.BRelative {
			return nil, fmt.Errorf("bare 16-bit absolute requires B+ prefix in 32-bit mode")
		}
		return []byte{op, byte(val), byte(val >> 8)}, nil
	case opcodemap.ModeAbsoluteIndLong:
		return []byte{op, byte(val), byte(val >> 8)}, nil
	case opcodemap.ModeAbsoluteLong, opcodemap.ModeAbsoluteLongX:
		return []byte{op, byte(val), byte(val >> 8), byte(val >> 16)}, nil
	}
	return nil, fmt.Errorf("unsupported addressing mode")
}

// encodeBranch computes the short or promoted-long branch displacement. pc
// is the address of the branch opcode itself.
func (a *Assembler) encodeBranch(mnemonic string, v operand.Value) ([]byte, error) {
	if v.Primary.Undefined != "" {
		// The target is a forward reference still unresolved: its
		// placeholder value of 0 cannot be trusted to pick between the
		// short and long forms (it would near-always compute an offset far
		// outside the short range and wrongly promote to the long form).
		// Commit to the short 2-byte form instead, the same size the
		// fallback below already assumes once both forms fail outright.
		op, _ := opcodemap.StdEncode(mnemonic, opcodemap.ModeRelative)
		return []byte{op, 0}, nil
	}
	pc := a.PC()
	target := v.Primary.Value
	offset := int64(target) - int64(pc+2)
	if offset >= -128 && offset <= 127 {
		op, _ := opcodemap.StdEncode(mnemonic, opcodemap.ModeRelative)
		return []byte{op, byte(int8(offset))}, nil
	}
	if long, ok := opcodemap.LongBranchOf(mnemonic); ok {
		if op, ok2 := opcodemap.StdEncode(long, opcodemap.ModeRelativeLong); ok2 {
			loffset := int64(target) - int64(pc+3)
			if loffset >= -32768 && loffset <= 32767 {
				u := uint16(loffset)
				return []byte{op, byte(u), byte(u >> 8)}, nil
			}
		}
	}
	if a.pass == 2 {
		return nil, fmt.Errorf("branch target out of range")
	}
	// Pass 1 suppresses this diagnostic so pass 2 can resolve it once every
	// symbol is known; assume the short form's size for now.
	return []byte{0, 0}, nil
}

// sizeSuffix splits a trailing ".B"/".W"/".L"/".S"/".D" size suffix off mnemonic.
func sizeSuffix(mnemonic string) (string, string) {
	if i := strings.LastIndexByte(mnemonic, '.'); i >= 0 {
		suf := mnemonic[i+1:]
		switch suf {
		case "B", "W", "L", "S", "D":
			return mnemonic[:i], suf
		}
	}
	return mnemonic, ""
}
