/*
	M65832 Assembler Toolchain - Long-branch promotion table

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

// longBranch maps a short-branch mnemonic to its long-branch promotion.
// Only BRA has a true long-branch partner
// (BRL); the conditional branches (BEQ, BNE, BCC, BCS, BPL, BMI, BVC, BVS)
// have no long form in this ISA and report out-of-range instead of
// promoting, matching the real 65816's instruction set.
var longBranch = map[string]string{
	"BRA": "BRL",
}

// LongBranchOf returns the long-branch mnemonic for a short-branch
// mnemonic, if one exists.
func LongBranchOf(mnemonic string) (string, bool) {
	m, ok := longBranch[mnemonic]
	return m, ok
}

// IsShortBranch reports whether mnemonic is a standard-plane relative
// branch.
func IsShortBranch(mnemonic string) bool {
	_, _, ok := func() (string, Mode, bool) {
		for op := 0; op < 256; op++ {
			if stdTable[op].Mnemonic == mnemonic && stdTable[op].Mode == ModeRelative {
				return mnemonic, ModeRelative, true
			}
		}
		return "", 0, false
	}()
	return ok
}
