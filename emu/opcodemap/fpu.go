/*
	M65832 Assembler Toolchain - FPU instruction table

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

// FPUShape classifies how an FPU instruction's register byte (or memory
// operand) is laid out.
type FPUShape int

const (
	FPUTwoReg FPUShape = iota // high nibble = dest Fn, low nibble = src Fn
	FPUOneReg                 // high nibble = Fn, low nibble = 0
	FPUMemDP                  // register in low nibble, 1-byte dp address follows
	FPUMemAbs                 // register in low nibble, 2-byte absolute follows
	FPUMemAbs32               // register in low nibble, 4-byte absolute follows
	FPUMemInd                 // Fn in high nibble, Rm (0..15) in low nibble
)

// FPUInfo is one entry of the FPU opcode table.
type FPUInfo struct {
	Mnemonic string
	Shape    FPUShape
}

// fpuTable covers opcodes 0x40-0x59 of the extended plane: the two-register
// single/double precision arithmetic and compare forms, the DS/SD
// conversions, and the one-register conversion forms.
var fpuTable = [26]FPUInfo{
	0x00: {"FADD.S", FPUTwoReg},
	0x01: {"FSUB.S", FPUTwoReg},
	0x02: {"FMUL.S", FPUTwoReg},
	0x03: {"FDIV.S", FPUTwoReg},
	0x04: {"FNEG.S", FPUTwoReg},
	0x05: {"FABS.S", FPUTwoReg},
	0x06: {"FCMP.S", FPUTwoReg},
	0x07: {"FMOV.S", FPUTwoReg},
	0x08: {"FSQRT.S", FPUTwoReg},
	0x09: {"FADD.D", FPUTwoReg},
	0x0A: {"FSUB.D", FPUTwoReg},
	0x0B: {"FMUL.D", FPUTwoReg},
	0x0C: {"FDIV.D", FPUTwoReg},
	0x0D: {"FNEG.D", FPUTwoReg},
	0x0E: {"FABS.D", FPUTwoReg},
	0x0F: {"FCMP.D", FPUTwoReg},
	0x10: {"FMOV.D", FPUTwoReg},
	0x11: {"FSQRT.D", FPUTwoReg},
	0x12: {"FCVT.DS", FPUTwoReg},
	0x13: {"FCVT.SD", FPUTwoReg},
	0x14: {"F2I", FPUOneReg},
	0x15: {"I2F", FPUOneReg},
	0x16: {"FTOA", FPUOneReg},
	0x17: {"FTOT", FPUOneReg},
	0x18: {"ATOF", FPUOneReg},
	0x19: {"TTOF", FPUOneReg},
}

// FPUBase is the first opcode byte of fpuTable (so fpuTable index 0 lands at
// opcode 0x40).
const FPUBase = 0x40

// FPU memory and register-indirect opcodes, named directly rather than
// table-driven since there are only ten of them and each is a singleton
// mnemonic/shape pairing.
const (
	OpFPULoadDP     = 0xB0
	OpFPUStoreDP    = 0xB2
	OpFPULoadAbs    = 0xB1
	OpFPUStoreAbs   = 0xB3
	OpFPULoadInd    = 0xB4
	OpFPUStoreInd   = 0xB5
	OpFPULoadAbs32  = 0xB6
	OpFPUStoreAbs32 = 0xB7
	OpFPULoadIndS   = 0xB8
	OpFPUStoreIndS  = 0xB9
)

var fpuMemOps = map[byte]struct {
	Mnemonic string
	Shape    FPUShape
}{
	OpFPULoadDP:     {"LDF", FPUMemDP},
	OpFPUStoreDP:    {"STF", FPUMemDP},
	OpFPULoadAbs:    {"LDF", FPUMemAbs},
	OpFPUStoreAbs:   {"STF", FPUMemAbs},
	OpFPULoadInd:    {"LDF", FPUMemInd},
	OpFPUStoreInd:   {"STF", FPUMemInd},
	OpFPULoadAbs32:  {"LDF.S", FPUMemAbs32},
	OpFPUStoreAbs32: {"STF.S", FPUMemAbs32},
	OpFPULoadIndS:   {"LDF.S", FPUMemInd},
	OpFPUStoreIndS:  {"STF.S", FPUMemInd},
}

var fpuEncode map[string]map[FPUShape]byte

func init() {
	fpuEncode = make(map[string]map[FPUShape]byte)
	add := func(op byte, mnemonic string, shape FPUShape) {
		m := fpuEncode[mnemonic]
		if m == nil {
			m = make(map[FPUShape]byte)
			fpuEncode[mnemonic] = m
		}
		m[shape] = op
	}
	for i, e := range fpuTable {
		if e.Mnemonic == "" {
			continue
		}
		add(byte(FPUBase+i), e.Mnemonic, e.Shape)
	}
	for op, e := range fpuMemOps {
		add(op, e.Mnemonic, e.Shape)
	}
}

// FPUDecode returns the mnemonic and register-layout shape for an
// extended-plane opcode byte in the FPU ranges (0x40-0x59 or 0xB0-0xB9).
func FPUDecode(op byte) (string, FPUShape, bool) {
	if op >= FPUBase && int(op) < FPUBase+len(fpuTable) {
		e := fpuTable[op-FPUBase]
		if e.Mnemonic != "" {
			return e.Mnemonic, e.Shape, true
		}
	}
	if e, ok := fpuMemOps[op]; ok {
		return e.Mnemonic, e.Shape, true
	}
	return "", 0, false
}

// FPUEncode returns the opcode byte for an FPU mnemonic in the given shape.
func FPUEncode(mnemonic string, shape FPUShape) (byte, bool) {
	m, ok := fpuEncode[mnemonic]
	if !ok {
		return 0, false
	}
	op, ok := m[shape]
	return op, ok
}

// IsFPUMnemonic reports whether mnemonic names any FPU-table instruction.
func IsFPUMnemonic(mnemonic string) bool {
	_, ok := fpuEncode[mnemonic]
	return ok
}
