/*
	M65832 Assembler Toolchain - Extended-ALU meta-plane

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
package opcodemap

// ALUModeIndex is the bits4:0 addressing-mode index of an extended-ALU mode
// byte. Values 0x0E/0x0F and 0x16/0x17 are unassigned gaps and are rejected
// the same as any other unrecognised index.
type ALUModeIndex byte

const (
	ALUIdxDP          ALUModeIndex = 0x00
	ALUIdxDPX         ALUModeIndex = 0x01
	ALUIdxDPY         ALUModeIndex = 0x02
	ALUIdxDPIndX      ALUModeIndex = 0x03
	ALUIdxDPIndY      ALUModeIndex = 0x04
	ALUIdxDPInd       ALUModeIndex = 0x05
	ALUIdxDPIndLong   ALUModeIndex = 0x06
	ALUIdxDPIndLongY  ALUModeIndex = 0x07
	ALUIdxAbs         ALUModeIndex = 0x08
	ALUIdxAbsX        ALUModeIndex = 0x09
	ALUIdxAbsY        ALUModeIndex = 0x0A
	ALUIdxAbsInd      ALUModeIndex = 0x0B
	ALUIdxAbsIndX     ALUModeIndex = 0x0C
	ALUIdxAbsIndLong  ALUModeIndex = 0x0D
	ALUIdxAbs32       ALUModeIndex = 0x10
	ALUIdxAbs32X      ALUModeIndex = 0x11
	ALUIdxAbs32Y      ALUModeIndex = 0x12
	ALUIdxAbs32Ind    ALUModeIndex = 0x13
	ALUIdxAbs32IndX   ALUModeIndex = 0x14
	ALUIdxAbs32IndLong ALUModeIndex = 0x15
	ALUIdxImmediate   ALUModeIndex = 0x18
	ALUIdxA           ALUModeIndex = 0x19
	ALUIdxX           ALUModeIndex = 0x1A
	ALUIdxY           ALUModeIndex = 0x1B
	ALUIdxStackRel    ALUModeIndex = 0x1C
	ALUIdxStackRelIndY ALUModeIndex = 0x1D
)

// aluModeToMode maps an extended-ALU addressing-mode index to the Mode
// enumeration, reusing the standard plane's dp/abs/indirect constants where
// the two planes agree and a dedicated Abs32 family where they don't (the
// 0x10-0x15 indices are a true 32-bit operand, distinct from the standard
// plane's 24-bit ModeAbsoluteLong). ModeToALUIndex inverts it by lookup, so
// the map is injective except for ALUIdxX and ALUIdxY, which both map to
// ModeImplied; ModeToALUIndex refuses ModeImplied so that inversion never
// depends on map iteration order.
var aluModeToMode = map[ALUModeIndex]Mode{
	ALUIdxDP:           ModeDirect,
	ALUIdxDPX:          ModeDirectX,
	ALUIdxDPY:          ModeDirectY,
	ALUIdxDPIndX:       ModeDirectIndX,
	ALUIdxDPIndY:       ModeDirectIndY,
	ALUIdxDPInd:        ModeDirectInd,
	ALUIdxDPIndLong:    ModeDirectIndLong,
	ALUIdxDPIndLongY:   ModeDirectIndLongY,
	ALUIdxAbs:          ModeAbsolute,
	ALUIdxAbsX:         ModeAbsoluteX,
	ALUIdxAbsY:         ModeAbsoluteY,
	ALUIdxAbsInd:       ModeAbsoluteInd,
	ALUIdxAbsIndX:      ModeAbsoluteIndX,
	ALUIdxAbsIndLong:   ModeAbsoluteIndLong,
	ALUIdxAbs32:        ModeAbsolute32,
	ALUIdxAbs32X:       ModeAbsolute32X,
	ALUIdxAbs32Y:       ModeAbsolute32Y,
	ALUIdxAbs32Ind:     ModeAbsolute32Ind,
	ALUIdxAbs32IndX:    ModeAbsolute32IndX,
	ALUIdxAbs32IndLong: ModeAbsolute32IndLong,
	ALUIdxImmediate:    ModeImmediate,
	ALUIdxA:            ModeAccumulator,
	ALUIdxX:             ModeImplied,
	ALUIdxY:             ModeImplied,
	ALUIdxStackRel:      ModeStackRel,
	ALUIdxStackRelIndY:  ModeStackRelIndY,
}

// ModeToALUIndex is the inverse of aluModeToMode for the modes the
// extended-ALU plane actually supports, used by the encoder to pick a mode
// index from a classified operand.
func ModeToALUIndex(mode Mode) (ALUModeIndex, bool) {
	if mode == ModeImplied {
		return 0, false
	}
	for idx, m := range aluModeToMode {
		if m == mode {
			return idx, true
		}
	}
	return 0, false
}

// aluMnemonics lists the 18 extended-ALU mnemonics in opcode order, starting
// at 0x80. Opcodes 0x92-0x97 are reserved/unassigned.
var aluMnemonics = [...]string{
	"LD", "ST", "ADC", "SBC", "AND", "ORA", "EOR", "CMP", "BIT",
	"TSB", "TRB", "INC", "DEC", "ASL", "LSR", "ROL", "ROR", "STZ",
}

// ALUBase is the first extended-ALU opcode (0x80..0x97).
const ALUBase = 0x80

var aluOpcodeOf map[string]byte
var aluMnemonicOf [256]string

func init() {
	aluOpcodeOf = make(map[string]byte, len(aluMnemonics))
	for i, m := range aluMnemonics {
		op := byte(ALUBase + i)
		aluOpcodeOf[m] = op
		aluMnemonicOf[op] = m
	}
}

// ALUOpcode returns the extended-ALU opcode byte for mnemonic.
func ALUOpcode(mnemonic string) (byte, bool) {
	op, ok := aluOpcodeOf[mnemonic]
	return op, ok
}

// ALUMnemonic returns the extended-ALU mnemonic for an opcode byte.
func ALUMnemonic(op byte) (string, bool) {
	m := aluMnemonicOf[op]
	return m, m != ""
}

// ALUTakesMemDest reports whether mnemonic permits a memory destination;
// only ST/TSB/TRB/STZ do.
func ALUTakesMemDest(mnemonic string) bool {
	switch mnemonic {
	case "ST", "TSB", "TRB", "STZ":
		return true
	}
	return false
}

// ALURequiresSource reports whether mnemonic requires a source operand
// distinct from its destination; everything except the unary INC/DEC/shifts
// does.
func ALURequiresSource(mnemonic string) bool {
	switch mnemonic {
	case "INC", "DEC", "ASL", "LSR", "ROL", "ROR":
		return false
	}
	return true
}

// ALUModeByte packs the three mode-byte fields: bits 7:6 size, bit 5 target,
// bits 4:0 addressing-mode index.
func ALUModeByte(size Size, target bool, idx ALUModeIndex) byte {
	b := byte(size) << 6
	if target {
		b |= 1 << 5
	}
	b |= byte(idx) & 0x1F
	return b
}

// ALUDecodeModeByte unpacks a mode byte into its three fields.
func ALUDecodeModeByte(b byte) (size Size, target bool, idx ALUModeIndex) {
	size = Size(b >> 6)
	target = b&(1<<5) != 0
	idx = ALUModeIndex(b & 0x1F)
	return
}

// ALUOperandLen returns the number of trailing operand bytes an
// addressing-mode index consumes (not counting a possible destination
// register byte), sized by size for the immediate and A/X/Y register forms.
func ALUOperandLen(idx ALUModeIndex, size Size) int {
	switch idx {
	case ALUIdxA, ALUIdxX, ALUIdxY:
		return 0
	case ALUIdxImmediate:
		switch size {
		case Size8:
			return 1
		case Size16:
			return 2
		default:
			return 4
		}
	case ALUIdxDP, ALUIdxDPX, ALUIdxDPY, ALUIdxDPIndX, ALUIdxDPIndY,
		ALUIdxDPInd, ALUIdxDPIndLong, ALUIdxDPIndLongY, ALUIdxStackRel:
		return 1
	case ALUIdxAbs, ALUIdxAbsX, ALUIdxAbsY, ALUIdxAbsInd, ALUIdxAbsIndX,
		ALUIdxAbsIndLong, ALUIdxStackRelIndY:
		return 2
	case ALUIdxAbs32, ALUIdxAbs32X, ALUIdxAbs32Y, ALUIdxAbs32Ind,
		ALUIdxAbs32IndX, ALUIdxAbs32IndLong:
		return 4
	}
	return 0
}
