/*
	M65832 Assembler Toolchain - Standard-plane opcode table

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

// StdInfo describes one standard-plane opcode byte for decode, and (paired
// with its mnemonic) for encode.
type StdInfo struct {
	Mnemonic string
	Mode     Mode
}

// stdTable is the full 256-entry standard plane, indexed by opcode byte. It
// is the 65C816 table with 0x02 (normally COP) repurposed as the
// extended-plane prefix byte; COP itself has no encoding in this ISA. A
// zero-value entry (empty Mnemonic) marks a byte with no standard-plane
// instruction.
var stdTable = [256]StdInfo{
	0x00: {"BRK", ModeImplied},
	0x01: {"ORA", ModeDirectIndX},
	// 0x02 reserved: extended-plane prefix, see extended.go.
	0x03: {"ORA", ModeStackRel},
	0x04: {"TSB", ModeDirect},
	0x05: {"ORA", ModeDirect},
	0x06: {"ASL", ModeDirect},
	0x07: {"ORA", ModeDirectIndLong},
	0x08: {"PHP", ModeImplied},
	0x09: {"ORA", ModeImmediate},
	0x0A: {"ASL", ModeAccumulator},
	0x0B: {"PHD", ModeImplied},
	0x0C: {"TSB", ModeAbsolute},
	0x0D: {"ORA", ModeAbsolute},
	0x0E: {"ASL", ModeAbsolute},
	0x0F: {"ORA", ModeAbsoluteLong},
	0x10: {"BPL", ModeRelative},
	0x11: {"ORA", ModeDirectIndY},
	0x12: {"ORA", ModeDirectInd},
	0x13: {"ORA", ModeStackRelIndY},
	0x14: {"TRB", ModeDirect},
	0x15: {"ORA", ModeDirectX},
	0x16: {"ASL", ModeDirectX},
	0x17: {"ORA", ModeDirectIndLongY},
	0x18: {"CLC", ModeImplied},
	0x19: {"ORA", ModeAbsoluteY},
	0x1A: {"INC", ModeAccumulator},
	0x1B: {"TCS", ModeImplied},
	0x1C: {"TRB", ModeAbsolute},
	0x1D: {"ORA", ModeAbsoluteX},
	0x1E: {"ASL", ModeAbsoluteX},
	0x1F: {"ORA", ModeAbsoluteLongX},
	0x20: {"JSR", ModeAbsolute},
	0x21: {"AND", ModeDirectIndX},
	0x22: {"JSL", ModeAbsoluteLong},
	0x23: {"AND", ModeStackRel},
	0x24: {"BIT", ModeDirect},
	0x25: {"AND", ModeDirect},
	0x26: {"ROL", ModeDirect},
	0x27: {"AND", ModeDirectIndLong},
	0x28: {"PLP", ModeImplied},
	0x29: {"AND", ModeImmediate},
	0x2A: {"ROL", ModeAccumulator},
	0x2B: {"PLD", ModeImplied},
	0x2C: {"BIT", ModeAbsolute},
	0x2D: {"AND", ModeAbsolute},
	0x2E: {"ROL", ModeAbsolute},
	0x2F: {"AND", ModeAbsoluteLong},
	0x30: {"BMI", ModeRelative},
	0x31: {"AND", ModeDirectIndY},
	0x32: {"AND", ModeDirectInd},
	0x33: {"AND", ModeStackRelIndY},
	0x34: {"BIT", ModeDirectX},
	0x35: {"AND", ModeDirectX},
	0x36: {"ROL", ModeDirectX},
	0x37: {"AND", ModeDirectIndLongY},
	0x38: {"SEC", ModeImplied},
	0x39: {"AND", ModeAbsoluteY},
	0x3A: {"DEC", ModeAccumulator},
	0x3B: {"TSC", ModeImplied},
	0x3C: {"BIT", ModeAbsoluteX},
	0x3D: {"AND", ModeAbsoluteX},
	0x3E: {"ROL", ModeAbsoluteX},
	0x3F: {"AND", ModeAbsoluteLongX},
	0x40: {"RTI", ModeImplied},
	0x41: {"EOR", ModeDirectIndX},
	0x42: {"WDM", ModeImmediate},
	0x43: {"EOR", ModeStackRel},
	0x44: {"MVP", ModeBlockMove},
	0x45: {"EOR", ModeDirect},
	0x46: {"LSR", ModeDirect},
	0x47: {"EOR", ModeDirectIndLong},
	0x48: {"PHA", ModeImplied},
	0x49: {"EOR", ModeImmediate},
	0x4A: {"LSR", ModeAccumulator},
	0x4B: {"PHK", ModeImplied},
	0x4C: {"JMP", ModeAbsolute},
	0x4D: {"EOR", ModeAbsolute},
	0x4E: {"LSR", ModeAbsolute},
	0x4F: {"EOR", ModeAbsoluteLong},
	0x50: {"BVC", ModeRelative},
	0x51: {"EOR", ModeDirectIndY},
	0x52: {"EOR", ModeDirectInd},
	0x53: {"EOR", ModeStackRelIndY},
	0x54: {"MVN", ModeBlockMove},
	0x55: {"EOR", ModeDirectX},
	0x56: {"LSR", ModeDirectX},
	0x57: {"EOR", ModeDirectIndLongY},
	0x58: {"CLI", ModeImplied},
	0x59: {"EOR", ModeAbsoluteY},
	0x5A: {"PHY", ModeImplied},
	0x5B: {"TCD", ModeImplied},
	0x5C: {"JML", ModeAbsoluteLong},
	0x5D: {"EOR", ModeAbsoluteX},
	0x5E: {"LSR", ModeAbsoluteX},
	0x5F: {"EOR", ModeAbsoluteLongX},
	0x60: {"RTS", ModeImplied},
	0x61: {"ADC", ModeDirectIndX},
	0x62: {"PER", ModeRelativeLong},
	0x63: {"ADC", ModeStackRel},
	0x64: {"STZ", ModeDirect},
	0x65: {"ADC", ModeDirect},
	0x66: {"ROR", ModeDirect},
	0x67: {"ADC", ModeDirectIndLong},
	0x68: {"PLA", ModeImplied},
	0x69: {"ADC", ModeImmediate},
	0x6A: {"ROR", ModeAccumulator},
	0x6B: {"RTL", ModeImplied},
	0x6C: {"JMP", ModeAbsoluteInd},
	0x6D: {"ADC", ModeAbsolute},
	0x6E: {"ROR", ModeAbsolute},
	0x6F: {"ADC", ModeAbsoluteLong},
	0x70: {"BVS", ModeRelative},
	0x71: {"ADC", ModeDirectIndY},
	0x72: {"ADC", ModeDirectInd},
	0x73: {"ADC", ModeStackRelIndY},
	0x74: {"STZ", ModeDirectX},
	0x75: {"ADC", ModeDirectX},
	0x76: {"ROR", ModeDirectX},
	0x77: {"ADC", ModeDirectIndLongY},
	0x78: {"SEI", ModeImplied},
	0x79: {"ADC", ModeAbsoluteY},
	0x7A: {"PLY", ModeImplied},
	0x7B: {"TDC", ModeImplied},
	0x7C: {"JMP", ModeAbsoluteIndX},
	0x7D: {"ADC", ModeAbsoluteX},
	0x7E: {"ROR", ModeAbsoluteX},
	0x7F: {"ADC", ModeAbsoluteLongX},
	0x80: {"BRA", ModeRelative},
	0x81: {"STA", ModeDirectIndX},
	0x82: {"BRL", ModeRelativeLong},
	0x83: {"STA", ModeStackRel},
	0x84: {"STY", ModeDirect},
	0x85: {"STA", ModeDirect},
	0x86: {"STX", ModeDirect},
	0x87: {"STA", ModeDirectIndLong},
	0x88: {"DEY", ModeImplied},
	0x89: {"BIT", ModeImmediate},
	0x8A: {"TXA", ModeImplied},
	0x8B: {"PHB", ModeImplied},
	0x8C: {"STY", ModeAbsolute},
	0x8D: {"STA", ModeAbsolute},
	0x8E: {"STX", ModeAbsolute},
	0x8F: {"STA", ModeAbsoluteLong},
	0x90: {"BCC", ModeRelative},
	0x91: {"STA", ModeDirectIndY},
	0x92: {"STA", ModeDirectInd},
	0x93: {"STA", ModeStackRelIndY},
	0x94: {"STY", ModeDirectX},
	0x95: {"STA", ModeDirectX},
	0x96: {"STX", ModeDirectY},
	0x97: {"STA", ModeDirectIndLongY},
	0x98: {"TYA", ModeImplied},
	0x99: {"STA", ModeAbsoluteY},
	0x9A: {"TXS", ModeImplied},
	0x9B: {"TXY", ModeImplied},
	0x9C: {"STZ", ModeAbsolute},
	0x9D: {"STA", ModeAbsoluteX},
	0x9E: {"STZ", ModeAbsoluteX},
	0x9F: {"STA", ModeAbsoluteLongX},
	0xA0: {"LDY", ModeImmediate},
	0xA1: {"LDA", ModeDirectIndX},
	0xA2: {"LDX", ModeImmediate},
	0xA3: {"LDA", ModeStackRel},
	0xA4: {"LDY", ModeDirect},
	0xA5: {"LDA", ModeDirect},
	0xA6: {"LDX", ModeDirect},
	0xA7: {"LDA", ModeDirectIndLong},
	0xA8: {"TAY", ModeImplied},
	0xA9: {"LDA", ModeImmediate},
	0xAA: {"TAX", ModeImplied},
	0xAB: {"PLB", ModeImplied},
	0xAC: {"LDY", ModeAbsolute},
	0xAD: {"LDA", ModeAbsolute},
	0xAE: {"LDX", ModeAbsolute},
	0xAF: {"LDA", ModeAbsoluteLong},
	0xB0: {"BCS", ModeRelative},
	0xB1: {"LDA", ModeDirectIndY},
	0xB2: {"LDA", ModeDirectInd},
	0xB3: {"LDA", ModeStackRelIndY},
	0xB4: {"LDY", ModeDirectX},
	0xB5: {"LDA", ModeDirectX},
	0xB6: {"LDX", ModeDirectY},
	0xB7: {"LDA", ModeDirectIndLongY},
	0xB8: {"CLV", ModeImplied},
	0xB9: {"LDA", ModeAbsoluteY},
	0xBA: {"TSX", ModeImplied},
	0xBB: {"TYX", ModeImplied},
	0xBC: {"LDY", ModeAbsoluteX},
	0xBD: {"LDA", ModeAbsoluteX},
	0xBE: {"LDX", ModeAbsoluteY},
	0xBF: {"LDA", ModeAbsoluteLongX},
	0xC0: {"CPY", ModeImmediate},
	0xC1: {"CMP", ModeDirectIndX},
	0xC2: {"REP", ModeImmediate},
	0xC3: {"CMP", ModeStackRel},
	0xC4: {"CPY", ModeDirect},
	0xC5: {"CMP", ModeDirect},
	0xC6: {"DEC", ModeDirect},
	0xC7: {"CMP", ModeDirectIndLong},
	0xC8: {"INY", ModeImplied},
	0xC9: {"CMP", ModeImmediate},
	0xCA: {"DEX", ModeImplied},
	0xCB: {"WAI", ModeImplied},
	0xCC: {"CPY", ModeAbsolute},
	0xCD: {"CMP", ModeAbsolute},
	0xCE: {"DEC", ModeAbsolute},
	0xCF: {"CMP", ModeAbsoluteLong},
	0xD0: {"BNE", ModeRelative},
	0xD1: {"CMP", ModeDirectIndY},
	0xD2: {"CMP", ModeDirectInd},
	0xD3: {"CMP", ModeStackRelIndY},
	0xD4: {"PEI", ModeDirect},
	0xD5: {"CMP", ModeDirectX},
	0xD6: {"DEC", ModeDirectX},
	0xD7: {"CMP", ModeDirectIndLongY},
	0xD8: {"CLD", ModeImplied},
	0xD9: {"CMP", ModeAbsoluteY},
	0xDA: {"PHX", ModeImplied},
	0xDB: {"STP", ModeImplied},
	0xDC: {"JML", ModeAbsoluteIndLong},
	0xDD: {"CMP", ModeAbsoluteX},
	0xDE: {"DEC", ModeAbsoluteX},
	0xDF: {"CMP", ModeAbsoluteLongX},
	0xE0: {"CPX", ModeImmediate},
	0xE1: {"SBC", ModeDirectIndX},
	0xE2: {"SEP", ModeImmediate},
	0xE3: {"SBC", ModeStackRel},
	0xE4: {"CPX", ModeDirect},
	0xE5: {"SBC", ModeDirect},
	0xE6: {"INC", ModeDirect},
	0xE7: {"SBC", ModeDirectIndLong},
	0xE8: {"INX", ModeImplied},
	0xE9: {"SBC", ModeImmediate},
	0xEA: {"NOP", ModeImplied},
	0xEB: {"XBA", ModeImplied},
	0xEC: {"CPX", ModeAbsolute},
	0xED: {"SBC", ModeAbsolute},
	0xEE: {"INC", ModeAbsolute},
	0xEF: {"SBC", ModeAbsoluteLong},
	0xF0: {"BEQ", ModeRelative},
	0xF1: {"SBC", ModeDirectIndY},
	0xF2: {"SBC", ModeDirectInd},
	0xF3: {"SBC", ModeStackRelIndY},
	0xF4: {"PEA", ModeAbsolute},
	0xF5: {"SBC", ModeDirectX},
	0xF6: {"INC", ModeDirectX},
	0xF7: {"SBC", ModeDirectIndLongY},
	0xF8: {"SED", ModeImplied},
	0xF9: {"SBC", ModeAbsoluteY},
	0xFA: {"PLX", ModeImplied},
	0xFB: {"XCE", ModeImplied},
	0xFC: {"JSR", ModeAbsoluteIndX},
	0xFD: {"SBC", ModeAbsoluteX},
	0xFE: {"INC", ModeAbsoluteX},
	0xFF: {"SBC", ModeAbsoluteLongX},
}

// ExtPrefix is the standard-plane byte that signals an extended-plane
// instruction follows. It displaces the 65C816's COP, which this ISA does
// not implement.
const ExtPrefix = 0x02

// stdEncode maps a mnemonic to every standard-plane (mode -> opcode) pairing
// it supports. Built once from stdTable so the two tables can never drift
// apart.
var stdEncode = func() map[string]map[Mode]byte {
	out := make(map[string]map[Mode]byte)
	for op := 0; op < 256; op++ {
		e := stdTable[op]
		if e.Mnemonic == "" {
			continue
		}
		m := out[e.Mnemonic]
		if m == nil {
			m = make(map[Mode]byte)
			out[e.Mnemonic] = m
		}
		m[e.Mode] = byte(op)
	}
	return out
}()

// StdDecode returns the mnemonic and mode for a standard-plane opcode byte,
// and false if the byte has no standard-plane instruction (i.e. it is the
// extended prefix, 0x02).
func StdDecode(op byte) (string, Mode, bool) {
	e := stdTable[op]
	if e.Mnemonic == "" {
		return "", 0, false
	}
	return e.Mnemonic, e.Mode, true
}

// StdEncode returns the opcode byte for mnemonic in mode, and false if that
// combination does not exist in the standard plane.
func StdEncode(mnemonic string, mode Mode) (byte, bool) {
	m, ok := stdEncode[mnemonic]
	if !ok {
		return 0, false
	}
	op, ok := m[mode]
	return op, ok
}

// StdModes returns every mode mnemonic supports in the standard plane, for
// operand-classification error messages ("addressing mode not valid for
// STA").
func StdModes(mnemonic string) []Mode {
	m := stdEncode[mnemonic]
	modes := make([]Mode, 0, len(m))
	for mode := range m {
		modes = append(modes, mode)
	}
	return modes
}

// ModeLen returns the total instruction length in bytes (opcode + operand)
// for mode in the standard plane, given the current accumulator/index width
// in bits (8, 16, or 32) used to size ModeImmediate/ModeAccumulator-driven
// forms.
func ModeLen(mode Mode, widthBits int) int {
	switch mode {
	case ModeImplied, ModeAccumulator:
		return 1
	case ModeImmediate:
		return 1 + widthBits/8
	case ModeDirect, ModeDirectX, ModeDirectY, ModeDirectIndX, ModeDirectIndY,
		ModeDirectInd, ModeDirectIndLong, ModeDirectIndLongY, ModeStackRel,
		ModeStackRelIndY, ModeRelative:
		return 2
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteY, ModeAbsoluteInd,
		ModeAbsoluteIndX, ModeAbsoluteIndLong, ModeRelativeLong, ModeBlockMove:
		return 3
	case ModeAbsoluteLong, ModeAbsoluteLongX:
		return 4
	}
	return 1
}
