/*
	M65832 Assembler Toolchain - Disassembler

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

// Package disassembler decodes the machine-code byte stream produced by
// package assembler back into textual instructions: a single Decode-style
// entry point, an opcodemap table lookup (StdDecode/ExtDecode/etc.), and
// per-addressing-mode operand formatting. Because this ISA's instruction
// length depends on persistent processor-mode flags (M/X width, REP/SEP),
// a Decoder struct carries that state across a stream the way Assembler
// carries pass state across a source file.
package disassembler

import (
	"fmt"

	"github.com/rcornwell/m65832asm/emu/opcodemap"
)

// Decoder holds the processor-mode flags that give standard-plane
// immediate operands and extended-ALU instructions their width, updated
// persistently as REP/SEP instructions are decoded. Defaults are
// 16-bit/16-bit/not-emulation, unlike the assembler's 32-bit default,
// because a disassembler run starts with no record of how the code that
// produced the stream configured the processor; CLI flags (-m8/-m16/-m32,
// -x8/-x16/-x32) override these before the first instruction.
type Decoder struct {
	M, X      int
	Emulation bool
}

// NewDecoder returns a Decoder at its documented defaults.
func NewDecoder() *Decoder {
	return &Decoder{M: 16, X: 16}
}

func (d *Decoder) is32() bool { return d.M == 32 || d.X == 32 }

// Instruction is one decoded instruction: its rendered text, its length in
// bytes, and (for relative branches) the absolute target address.
type Instruction struct {
	Text      string
	Length    int
	Target    uint32
	HasTarget bool
}

// memAccOps/idxOps/always1ByteImm mirror the assembler's own tables in
// emu/assembler/encode.go: the encoder and decoder must agree on which
// mnemonics size their immediate from M, from X, or always take one byte,
// and since the assembler doesn't export them, the decoder keeps its own
// copy.
var memAccOps = map[string]bool{
	"LDA": true, "ADC": true, "SBC": true,
	"AND": true, "ORA": true, "EOR": true, "CMP": true, "BIT": true,
}

var idxOps = map[string]bool{"LDX": true, "LDY": true, "CPX": true, "CPY": true}

var always1ByteImm = map[string]bool{
	"REP": true, "SEP": true, "COP": true, "TRAP": true, "REPE": true, "SEPE": true,
	"WDM": true,
}

func (d *Decoder) immediateWidth(mnemonic string) int {
	switch {
	case always1ByteImm[mnemonic]:
		return 8
	case idxOps[mnemonic]:
		return d.X
	case mnemonic == "PEA":
		return 16
	default:
		return d.M
	}
}

// applyRepSep updates M/X from a decoded REP/SEP immediate byte: bit 5
// selects M, bit 4 selects X; SEP clears the selected flag to 8-bit, REP
// sets it to 16-bit. These updates persist across every subsequent
// instruction in the stream.
func (d *Decoder) applyRepSep(mnemonic string, imm byte) {
	width := 16
	if mnemonic == "SEP" {
		width = 8
	}
	if imm&(1<<5) != 0 {
		d.M = width
	}
	if imm&(1<<4) != 0 {
		d.X = width
	}
}

// Decode decodes one instruction starting at data[0], which is at address
// pc in the final image, mutating d's M/X state if the instruction is
// REP/SEP.
func (d *Decoder) Decode(data []byte, pc uint32) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, fmt.Errorf("no bytes to decode")
	}

	if d.is32() && data[0] == 0x42 {
		switch {
		case len(data) >= 2 && data[1] == 0xCB:
			return Instruction{Text: "WAI", Length: 2}, nil
		case len(data) >= 2 && data[1] == 0xDB:
			return Instruction{Text: "STP", Length: 2}, nil
		default:
			return Instruction{Text: fmt.Sprintf(".BYTE $%02X", data[0]), Length: 1}, nil
		}
	}

	if data[0] == opcodemap.ExtPrefix && len(data) >= 2 {
		return d.decodeExtended(data, pc)
	}

	return d.decodeStandard(data, pc)
}

// decodeStandard decodes a standard-plane instruction.
func (d *Decoder) decodeStandard(data []byte, pc uint32) (Instruction, error) {
	op := data[0]
	mnemonic, mode, ok := opcodemap.StdDecode(op)
	if !ok {
		return Instruction{}, fmt.Errorf("opcode %#02x has no standard-plane instruction", op)
	}

	width := d.immediateWidth(mnemonic)
	length := opcodemap.ModeLen(mode, width)
	if len(data) < length {
		return Instruction{}, fmt.Errorf("truncated %s instruction at opcode %#02x", mnemonic, op)
	}

	if mnemonic == "MVP" || mnemonic == "MVN" {
		// Wire order is opcode, dst, src; assembler syntax is src,dst.
		return Instruction{Text: fmt.Sprintf("%-6s$%02X,$%02X", mnemonic, data[2], data[1]), Length: 3}, nil
	}

	if mode == opcodemap.ModeRelative || mode == opcodemap.ModeRelativeLong {
		return d.decodeBranch(mnemonic, mode, data, pc, length)
	}

	operand := d.formatStdOperand(mode, data[1:length], width)
	if mnemonic == "REP" || mnemonic == "SEP" {
		d.applyRepSep(mnemonic, data[1])
	}
	return Instruction{Text: pad(mnemonic) + operand, Length: length}, nil
}

// decodeBranch computes a relative branch's absolute target from
// PC + size + signed offset.
func (d *Decoder) decodeBranch(mnemonic string, mode opcodemap.Mode, data []byte, pc uint32, length int) (Instruction, error) {
	var offset int32
	if mode == opcodemap.ModeRelative {
		offset = int32(int8(data[1]))
	} else {
		offset = int32(int16(uint16(data[1]) | uint16(data[2])<<8))
	}
	target := uint32(int64(pc) + int64(length) + int64(offset))
	return Instruction{
		Text:      fmt.Sprintf("%s$%08X", pad(mnemonic), target),
		Length:    length,
		Target:    target,
		HasTarget: true,
	}, nil
}

// pad appends the single space that separates mnemonic from its operand.
func pad(mnemonic string) string {
	return mnemonic + " "
}

// formatDP renders a direct-page byte as a register alias when it is
// 4-byte aligned, or a plain hex literal otherwise.
func formatDP(b byte) string {
	if name, ok := opcodemap.RegisterName(b); ok {
		return name
	}
	return fmt.Sprintf("$%02X", b)
}

// absPrefix renders the "B+" marker the assembler requires on a bare
// 16-bit absolute address while in 32-bit mode; emu/operand's BRelative
// flag is this syntax's assembler-side twin.
func (d *Decoder) absPrefix() string {
	if d.is32() {
		return "B+"
	}
	return ""
}

func le16(b []byte) uint32 { return uint32(b[0]) | uint32(b[1])<<8 }
func le24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// formatStdOperand renders the operand text for every standard-plane mode
// other than REL/RELL, which decodeBranch handles separately.
func (d *Decoder) formatStdOperand(mode opcodemap.Mode, b []byte, width int) string {
	switch mode {
	case opcodemap.ModeImplied:
		return ""
	case opcodemap.ModeAccumulator:
		return "A"
	case opcodemap.ModeImmediate:
		switch width {
		case 8:
			return fmt.Sprintf("#$%02X", b[0])
		case 16:
			return fmt.Sprintf("#$%04X", le16(b))
		default:
			return fmt.Sprintf("#$%08X", le32(b))
		}
	case opcodemap.ModeDirect:
		return formatDP(b[0])
	case opcodemap.ModeDirectX:
		return formatDP(b[0]) + ",X"
	case opcodemap.ModeDirectY:
		return formatDP(b[0]) + ",Y"
	case opcodemap.ModeDirectIndX:
		return "(" + formatDP(b[0]) + ",X)"
	case opcodemap.ModeDirectIndY:
		return "(" + formatDP(b[0]) + "),Y"
	case opcodemap.ModeDirectInd:
		return "(" + formatDP(b[0]) + ")"
	case opcodemap.ModeDirectIndLong:
		return "[" + formatDP(b[0]) + "]"
	case opcodemap.ModeDirectIndLongY:
		return "[" + formatDP(b[0]) + "],Y"
	case opcodemap.ModeStackRel:
		return fmt.Sprintf("$%02X,S", b[0])
	case opcodemap.ModeStackRelIndY:
		return fmt.Sprintf("($%02X,S),Y", b[0])
	case opcodemap.ModeAbsolute:
		return d.absPrefix() + fmt.Sprintf("$%04X", le16(b))
	case opcodemap.ModeAbsoluteX:
		return d.absPrefix() + fmt.Sprintf("$%04X,X", le16(b))
	case opcodemap.ModeAbsoluteY:
		return d.absPrefix() + fmt.Sprintf("$%04X,Y", le16(b))
	case opcodemap.ModeAbsoluteInd:
		return "(" + d.absPrefix() + fmt.Sprintf("$%04X)", le16(b))
	case opcodemap.ModeAbsoluteIndX:
		return "(" + d.absPrefix() + fmt.Sprintf("$%04X,X)", le16(b))
	case opcodemap.ModeAbsoluteIndLong:
		return fmt.Sprintf("[$%04X]", le16(b))
	case opcodemap.ModeAbsoluteLong:
		return fmt.Sprintf("$%06X", le24(b))
	case opcodemap.ModeAbsoluteLongX:
		return fmt.Sprintf("$%06X,X", le24(b))
	}
	return ""
}

// decodeExtended decodes the extended plane reached through the 0x02
// prefix: the extended-ALU meta-plane (0x80-0x97), the barrel shifter
// (0x98), the bit-field extensions (0x99), FPU forms, and the direct
// extended instructions.
func (d *Decoder) decodeExtended(data []byte, pc uint32) (Instruction, error) {
	second := data[1]

	switch {
	case second >= opcodemap.ALUBase && second < opcodemap.ALUBase+0x18:
		return d.decodeALU(data)
	case second == opcodemap.OpBarrelShifter:
		return d.decodeBarrel(data)
	case second == opcodemap.OpBitField:
		return d.decodeBitField(data)
	}

	if mnemonic, shape, ok := opcodemap.FPUDecode(second); ok {
		return d.decodeFPU(mnemonic, shape, data)
	}

	if mnemonic, shape, ok := opcodemap.ExtDecode(second); ok {
		return d.decodeExtDirect(mnemonic, shape, data)
	}

	return Instruction{}, fmt.Errorf("opcode 0x02 %#02x has no extended-plane instruction", second)
}

// decodeALU decodes an extended-ALU meta-plane instruction: opcode, mode
// byte, an optional destination register byte (target=1), and a
// variable-length source operand sized by the mode index and the mode
// byte's own size field.
func (d *Decoder) decodeALU(data []byte) (Instruction, error) {
	if len(data) < 3 {
		return Instruction{}, fmt.Errorf("truncated extended-ALU instruction")
	}
	mnemonic, ok := opcodemap.ALUMnemonic(data[1])
	if !ok {
		return Instruction{}, fmt.Errorf("opcode 0x02 %#02x is not an extended-ALU opcode", data[1])
	}
	size, target, idx := opcodemap.ALUDecodeModeByte(data[2])

	suffix := ""
	switch size {
	case opcodemap.Size8:
		suffix = ".B"
	case opcodemap.Size16:
		suffix = ".W"
	}

	pos := 3
	destByte := byte(0)
	if target {
		if len(data) < pos+1 {
			return Instruction{}, fmt.Errorf("truncated extended-ALU destination byte")
		}
		destByte = data[pos]
		pos++
	}

	tailLen := opcodemap.ALUOperandLen(idx, size)
	if len(data) < pos+tailLen {
		return Instruction{}, fmt.Errorf("truncated extended-ALU operand")
	}
	srcText := d.formatALUOperand(idx, data[pos:pos+tailLen])
	if srcText == "" {
		return Instruction{}, fmt.Errorf("extended-ALU mode index %#02x is unassigned", byte(idx))
	}
	length := pos + tailLen

	var text string
	switch {
	case !opcodemap.ALURequiresSource(mnemonic):
		text = pad(mnemonic+suffix) + srcText
	case opcodemap.ALUTakesMemDest(mnemonic):
		text = pad(mnemonic + suffix) + srcText
		if target {
			text += "," + formatDP(destByte)
		}
	case target:
		text = pad(mnemonic+suffix) + formatDP(destByte) + "," + srcText
	default:
		text = pad(mnemonic+suffix) + "A," + srcText
	}

	return Instruction{Text: text, Length: length}, nil
}

// formatALUOperand renders the extended-ALU plane's addressing-mode
// operand, recognising the A/X/Y register pseudo-operands the standard
// plane's Mode enumeration has no room for.
func (d *Decoder) formatALUOperand(idx opcodemap.ALUModeIndex, b []byte) string {
	switch idx {
	case opcodemap.ALUIdxA:
		return "A"
	case opcodemap.ALUIdxX:
		return "X"
	case opcodemap.ALUIdxY:
		return "Y"
	case opcodemap.ALUIdxImmediate:
		switch len(b) {
		case 1:
			return fmt.Sprintf("#$%02X", b[0])
		case 2:
			return fmt.Sprintf("#$%04X", le16(b))
		default:
			return fmt.Sprintf("#$%08X", le32(b))
		}
	case opcodemap.ALUIdxDP:
		return formatDP(b[0])
	case opcodemap.ALUIdxDPX:
		return formatDP(b[0]) + ",X"
	case opcodemap.ALUIdxDPY:
		return formatDP(b[0]) + ",Y"
	case opcodemap.ALUIdxDPIndX:
		return "(" + formatDP(b[0]) + ",X)"
	case opcodemap.ALUIdxDPIndY:
		return "(" + formatDP(b[0]) + "),Y"
	case opcodemap.ALUIdxDPInd:
		return "(" + formatDP(b[0]) + ")"
	case opcodemap.ALUIdxDPIndLong:
		return "[" + formatDP(b[0]) + "]"
	case opcodemap.ALUIdxDPIndLongY:
		return "[" + formatDP(b[0]) + "],Y"
	case opcodemap.ALUIdxStackRel:
		return fmt.Sprintf("$%02X,S", b[0])
	case opcodemap.ALUIdxStackRelIndY:
		return fmt.Sprintf("($%04X,S),Y", le16(b))
	case opcodemap.ALUIdxAbs:
		return fmt.Sprintf("$%04X", le16(b))
	case opcodemap.ALUIdxAbsX:
		return fmt.Sprintf("$%04X,X", le16(b))
	case opcodemap.ALUIdxAbsY:
		return fmt.Sprintf("$%04X,Y", le16(b))
	case opcodemap.ALUIdxAbsInd:
		return fmt.Sprintf("($%04X)", le16(b))
	case opcodemap.ALUIdxAbsIndX:
		return fmt.Sprintf("($%04X,X)", le16(b))
	case opcodemap.ALUIdxAbsIndLong:
		return fmt.Sprintf("[$%04X]", le16(b))
	case opcodemap.ALUIdxAbs32:
		return fmt.Sprintf("$%08X", le32(b))
	case opcodemap.ALUIdxAbs32X:
		return fmt.Sprintf("$%08X,X", le32(b))
	case opcodemap.ALUIdxAbs32Y:
		return fmt.Sprintf("$%08X,Y", le32(b))
	case opcodemap.ALUIdxAbs32Ind:
		return fmt.Sprintf("($%08X)", le32(b))
	case opcodemap.ALUIdxAbs32IndX:
		return fmt.Sprintf("($%08X,X)", le32(b))
	case opcodemap.ALUIdxAbs32IndLong:
		return fmt.Sprintf("[$%08X]", le32(b))
	}
	return ""
}

// decodeBarrel decodes a barrel-shifter triple: op-and-count byte, dst
// register byte, src register byte.
func (d *Decoder) decodeBarrel(data []byte) (Instruction, error) {
	if len(data) < 5 {
		return Instruction{}, fmt.Errorf("truncated barrel-shifter instruction")
	}
	op, count := opcodemap.DecodeShiftByte(data[2])
	mnemonic := opcodemap.ShiftMnemonic(op)
	countText := fmt.Sprintf("#$%02X", count)
	if count == opcodemap.CountFromA {
		countText = "A"
	}
	text := fmt.Sprintf("%s%s,%s,%s", pad(mnemonic), formatDP(data[3]), formatDP(data[4]), countText)
	return Instruction{Text: text, Length: 5}, nil
}

// decodeBitField decodes a bit-field-extension triple: sub-op byte, dst
// register byte, src register byte.
func (d *Decoder) decodeBitField(data []byte) (Instruction, error) {
	if len(data) < 5 {
		return Instruction{}, fmt.Errorf("truncated bit-field instruction")
	}
	mnemonic := opcodemap.BitFieldMnemonic(opcodemap.BitFieldOp(data[2]))
	if mnemonic == "" {
		return Instruction{}, fmt.Errorf("opcode 0x02 0x99 %#02x is not a recognised bit-field sub-op", data[2])
	}
	text := fmt.Sprintf("%s%s,%s", pad(mnemonic), formatDP(data[3]), formatDP(data[4]))
	return Instruction{Text: text, Length: 5}, nil
}

// decodeFPU decodes an FPU instruction in any of its six register/memory
// shapes.
func (d *Decoder) decodeFPU(mnemonic string, shape opcodemap.FPUShape, data []byte) (Instruction, error) {
	switch shape {
	case opcodemap.FPUTwoReg:
		if len(data) < 3 {
			return Instruction{}, fmt.Errorf("truncated FPU instruction")
		}
		dst, src := data[2]>>4, data[2]&0xF
		return Instruction{Text: fmt.Sprintf("%sF%d,F%d", pad(mnemonic), dst, src), Length: 3}, nil
	case opcodemap.FPUOneReg:
		if len(data) < 3 {
			return Instruction{}, fmt.Errorf("truncated FPU instruction")
		}
		dst := data[2] >> 4
		return Instruction{Text: fmt.Sprintf("%sF%d", pad(mnemonic), dst), Length: 3}, nil
	case opcodemap.FPUMemInd:
		if len(data) < 3 {
			return Instruction{}, fmt.Errorf("truncated FPU instruction")
		}
		reg, rm := data[2]>>4, data[2]&0xF
		return Instruction{Text: fmt.Sprintf("%sF%d,(R%d)", pad(mnemonic), reg, rm), Length: 3}, nil
	case opcodemap.FPUMemDP:
		if len(data) < 4 {
			return Instruction{}, fmt.Errorf("truncated FPU instruction")
		}
		return Instruction{Text: fmt.Sprintf("%sF%d,%s", pad(mnemonic), data[2], formatDP(data[3])), Length: 4}, nil
	case opcodemap.FPUMemAbs:
		if len(data) < 5 {
			return Instruction{}, fmt.Errorf("truncated FPU instruction")
		}
		return Instruction{Text: fmt.Sprintf("%sF%d,$%04X", pad(mnemonic), data[2], le16(data[3:5])), Length: 5}, nil
	case opcodemap.FPUMemAbs32:
		if len(data) < 7 {
			return Instruction{}, fmt.Errorf("truncated FPU instruction")
		}
		return Instruction{Text: fmt.Sprintf("%sF%d,$%08X", pad(mnemonic), data[2], le32(data[3:7])), Length: 7}, nil
	}
	return Instruction{}, fmt.Errorf("unrecognised FPU operand shape")
}

// decodeExtDirect decodes a direct extended instruction: implied, an 8-bit
// dp address or immediate, a 16-bit absolute address, or a 32-bit quad.
func (d *Decoder) decodeExtDirect(mnemonic string, shape opcodemap.ExtOperand, data []byte) (Instruction, error) {
	n := opcodemap.ExtOperandLen(shape)
	if len(data) < 2+n {
		return Instruction{}, fmt.Errorf("truncated %s instruction", mnemonic)
	}
	length := 2 + n
	switch shape {
	case opcodemap.ExtImplied:
		return Instruction{Text: mnemonic, Length: length}, nil
	case opcodemap.ExtDP:
		return Instruction{Text: pad(mnemonic) + formatDP(data[2]), Length: length}, nil
	case opcodemap.ExtImm8:
		return Instruction{Text: fmt.Sprintf("%s#$%02X", pad(mnemonic), data[2]), Length: length}, nil
	case opcodemap.ExtAbs:
		return Instruction{Text: fmt.Sprintf("%s$%04X", pad(mnemonic), le16(data[2:4])), Length: length}, nil
	case opcodemap.ExtQuad32:
		return Instruction{Text: fmt.Sprintf("%s$%08X", pad(mnemonic), le32(data[2:6])), Length: length}, nil
	}
	return Instruction{}, fmt.Errorf("unrecognised extended operand shape")
}
