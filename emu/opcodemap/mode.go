/*
	M65832 Assembler Toolchain - Addressing mode enumeration

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

// Package opcodemap holds the instruction tables: the standard 65C816-derived
// opcode plane, the extended plane reached through the 0x02 prefix byte (direct
// extended instructions, FPU, the extended-ALU meta-plane, the barrel shifter,
// and the bit-field extensions), and the per-mnemonic metadata needed to drive
// both the assembler's encoder and the disassembler's decoder from the same
// data.
package opcodemap

// Mode identifies one addressing-mode variant. The numeric values are purely
// internal bookkeeping (table indices); they are not wire values. Wire-level
// mode indices for the extended-ALU plane are listed separately in
// extalu.go's ALUModeIndex table. The standard and extended-ALU planes use
// distinct 32-bit-absolute Mode constants (ModeAbsoluteLong* vs
// ModeAbsolute32*) since the former is a true 24-bit operand and the latter
// a true 32-bit one.
type Mode int

const (
	ModeImplied       Mode = iota // no operand: CLC, NOP, RTS...
	ModeAccumulator                // A: ASL A
	ModeImmediate                  // #$nn / #$nnnn / #$nnnnnnnn
	ModeDirect                      // dp
	ModeDirectX                     // dp,X
	ModeDirectY                     // dp,Y
	ModeDirectIndX                  // (dp,X)
	ModeDirectIndY                  // (dp),Y
	ModeDirectInd                   // (dp)
	ModeDirectIndLong                // [dp]
	ModeDirectIndLongY               // [dp],Y
	ModeAbsolute                     // abs
	ModeAbsoluteX                    // abs,X
	ModeAbsoluteY                    // abs,Y
	ModeAbsoluteInd                  // (abs) -- JMP only
	ModeAbsoluteIndX                 // (abs,X) -- JMP/JSR only
	ModeAbsoluteIndLong               // [abs] -- JMP only
	ModeAbsoluteLong                  // al (24-bit absolute long: JSL, JML, LDA al...)
	ModeAbsoluteLongX                 // al,X
	ModeAbsoluteLongY                 // al,Y -- no such 65816 instruction; never encodable
	ModeStackRel                      // sr,S
	ModeStackRelIndY                  // (sr,S),Y
	ModeBlockMove                     // src,dst (MVN/MVP)
	ModeRelative                      // 8-bit branch displacement
	ModeRelativeLong                  // 16-bit branch displacement (BRL)
	ModeFPUReg                        // Fn, Fn (register-to-register FPU form)
	ModeAbsolute32                    // extended-ALU abs32
	ModeAbsolute32X                   // extended-ALU abs32,X
	ModeAbsolute32Y                   // extended-ALU abs32,Y
	ModeAbsolute32Ind                 // extended-ALU (abs32)
	ModeAbsolute32IndX                // extended-ALU (abs32,X)
	ModeAbsolute32IndLong             // extended-ALU [abs32]
)

// Size is the instruction's width class inside the extended-ALU meta-plane's
// mode byte. It is meaningless outside that plane.
type Size int

const (
	Size8 Size = iota
	Size16
	Size32
)
