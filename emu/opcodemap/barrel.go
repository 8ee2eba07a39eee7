/*
	M65832 Assembler Toolchain - Barrel shifter and bit-field extensions

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

// OpBarrelShifter and OpBitField are the second-byte discriminators that
// follow the 0x02 prefix for these two extended-instruction groups.
const (
	OpBarrelShifter = 0x98
	OpBitField      = 0x99
)

// ShiftOp selects the barrel shifter's operation, packed into the top 3
// bits of its op-and-count byte. The bit assignment is this implementation's
// own choice; the ISA names the five mnemonics and the wire shape but not
// their bit encoding.
type ShiftOp int

const (
	ShiftSHL ShiftOp = iota
	ShiftSHR
	ShiftSAR
	ShiftROL
	ShiftROR
)

var shiftOpMnemonic = [...]string{"SHL", "SHR", "SAR", "ROL", "ROR"}

// CountFromA is the sentinel value of the op-and-count byte's low 5 bits
// meaning "shift/rotate count comes from the accumulator" rather than being
// an immediate count.
const CountFromA = 0x1F

// ShiftMnemonic returns the mnemonic for a ShiftOp.
func ShiftMnemonic(op ShiftOp) string {
	return shiftOpMnemonic[op]
}

// ShiftOpFromMnemonic returns the ShiftOp for a barrel-shifter mnemonic.
func ShiftOpFromMnemonic(mnemonic string) (ShiftOp, bool) {
	for i, m := range shiftOpMnemonic {
		if m == mnemonic {
			return ShiftOp(i), true
		}
	}
	return 0, false
}

// EncodeShiftByte packs op and count (or CountFromA) into the op-and-count
// byte that follows the 0x98 second-opcode byte.
func EncodeShiftByte(op ShiftOp, count byte) byte {
	return byte(op)<<5 | (count & 0x1F)
}

// DecodeShiftByte unpacks the op-and-count byte.
func DecodeShiftByte(b byte) (op ShiftOp, count byte) {
	return ShiftOp(b >> 5), b & 0x1F
}

// IsBarrelMnemonic reports whether mnemonic is one of the barrel-shifter's
// five operations.
func IsBarrelMnemonic(mnemonic string) bool {
	_, ok := ShiftOpFromMnemonic(mnemonic)
	return ok
}

// BitFieldOp selects a bit-field-extension sub-operation carried in the
// second byte 0x99 family: sign/zero extension, count-leading/trailing
// zeros, and population count.
type BitFieldOp int

const (
	BitFieldSEXT8 BitFieldOp = iota
	BitFieldSEXT16
	BitFieldZEXT8
	BitFieldZEXT16
	BitFieldCLZ
	BitFieldCTZ
	BitFieldPOPCNT
)

var bitFieldMnemonic = [...]string{
	"SEXT8", "SEXT16", "ZEXT8", "ZEXT16", "CLZ", "CTZ", "POPCNT",
}

// BitFieldMnemonic returns the mnemonic for a BitFieldOp.
func BitFieldMnemonic(op BitFieldOp) string {
	return bitFieldMnemonic[op]
}

// BitFieldOpFromMnemonic returns the BitFieldOp for a bit-field mnemonic.
func BitFieldOpFromMnemonic(mnemonic string) (BitFieldOp, bool) {
	for i, m := range bitFieldMnemonic {
		if m == mnemonic {
			return BitFieldOp(i), true
		}
	}
	return 0, false
}

// IsBitFieldMnemonic reports whether mnemonic is one of the bit-field
// extension's seven operations.
func IsBitFieldMnemonic(mnemonic string) bool {
	_, ok := BitFieldOpFromMnemonic(mnemonic)
	return ok
}
