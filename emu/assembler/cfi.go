/*
	M65832 Assembler Toolchain - CFI directive state machine

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
	"strconv"
	"strings"

	"github.com/rcornwell/m65832asm/emu/scanner"
)

// MaxCFIRememberDepth bounds the CFI_REMEMBER_STATE LIFO.
const MaxCFIRememberDepth = 32

// cfiRegRule is one saved-register entry: register is offset from the CFA.
type cfiRegRule struct {
	reg    string
	offset int32
}

// cfiFrame is the CFA and saved-register table active at one point in a
// procedure.
type cfiFrame struct {
	cfaReg    string
	cfaOffset int32
	saved     map[string]int32
}

func newCFIFrame() cfiFrame {
	return cfiFrame{saved: make(map[string]int32)}
}

func (f cfiFrame) clone() cfiFrame {
	c := cfiFrame{cfaReg: f.cfaReg, cfaOffset: f.cfaOffset, saved: make(map[string]int32, len(f.saved))}
	for k, v := range f.saved {
		c.saved[k] = v
	}
	return c
}

// cfiState tracks whether a CFI_STARTPROC/CFI_ENDPROC region is open, the
// live frame, and the CFI_REMEMBER_STATE stack. No output bytes are ever
// emitted for CFI directives: they exist purely to be accepted without
// diagnostics and, if a future unwinder needs it, to carry the frame
// description alongside the symbol table.
type cfiState struct {
	open      bool
	frame     cfiFrame
	remember  []cfiFrame
}

func newCFIState() *cfiState {
	return &cfiState{}
}

// handleCFI dispatches one .CFI_* directive. Unrecognized .CFI_* spellings
// are accepted silently at normal verbosity and warned about only when
// running verbose.
func (a *Assembler) handleCFI(upper string, rest string) {
	rest = strings.TrimSpace(rest)
	switch upper {
	case ".CFI_STARTPROC":
		if a.cfi.open {
			a.errf("CFI_STARTPROC nested inside another CFI_STARTPROC")
			return
		}
		a.cfi.open = true
		a.cfi.frame = newCFIFrame()
		a.cfi.remember = nil
	case ".CFI_ENDPROC":
		if !a.cfi.open {
			a.errf("CFI_ENDPROC without matching CFI_STARTPROC")
			return
		}
		a.cfi.open = false
	case ".CFI_DEF_CFA":
		reg, offTok, ok := splitTopComma(rest)
		if !ok {
			a.errf("CFI_DEF_CFA requires register, offset")
			return
		}
		a.cfi.frame.cfaReg = reg
		a.cfi.frame.cfaOffset = a.evalCFIOffset(offTok)
	case ".CFI_DEF_CFA_REGISTER":
		a.cfi.frame.cfaReg = rest
	case ".CFI_DEF_CFA_OFFSET":
		a.cfi.frame.cfaOffset = a.evalCFIOffset(rest)
	case ".CFI_ADJUST_CFA_OFFSET":
		a.cfi.frame.cfaOffset += a.evalCFIOffset(rest)
	case ".CFI_OFFSET":
		reg, offTok, ok := splitTopComma(rest)
		if !ok {
			a.errf("CFI_OFFSET requires register, offset")
			return
		}
		a.cfi.frame.saved[reg] = a.evalCFIOffset(offTok)
	case ".CFI_RESTORE":
		delete(a.cfi.frame.saved, rest)
	case ".CFI_REMEMBER_STATE":
		if len(a.cfi.remember) >= MaxCFIRememberDepth {
			a.errf("CFI_REMEMBER_STATE stack exceeds %d", MaxCFIRememberDepth)
			return
		}
		a.cfi.remember = append(a.cfi.remember, a.cfi.frame.clone())
	case ".CFI_RESTORE_STATE":
		if len(a.cfi.remember) == 0 {
			a.errf("CFI_RESTORE_STATE without matching CFI_REMEMBER_STATE")
			return
		}
		n := len(a.cfi.remember) - 1
		a.cfi.frame = a.cfi.remember[n]
		a.cfi.remember = a.cfi.remember[:n]
	default:
		if a.Verbose {
			a.warnf("unrecognized directive %s ignored", upper)
		}
	}
}

func (a *Assembler) evalCFIOffset(tok string) int32 {
	tok = strings.TrimSpace(tok)
	n, err := strconv.ParseInt(tok, 10, 32)
	if err == nil {
		return int32(n)
	}
	v, _, evalErr := scanner.Eval(tok, a)
	if evalErr != nil {
		a.errf("%v", evalErr)
		return 0
	}
	return int32(v.Value)
}
