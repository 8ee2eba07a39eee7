/*
	M65832 Assembler Toolchain - Two-pass assembler driver

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

// Package assembler implements the two-pass assembler driver: source
// scanning line-by-line, label and directive handling, and instruction
// encoding, tying together emu/scanner, emu/symtab, emu/section,
// emu/opcodemap, and emu/operand. A single driver type carries all pass
// state, with a big switch over directive/mnemonic names and an
// opcode-table-style dispatch built once at init.
package assembler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcornwell/m65832asm/emu/diag"
	"github.com/rcornwell/m65832asm/emu/opcodemap"
	"github.com/rcornwell/m65832asm/emu/operand"
	"github.com/rcornwell/m65832asm/emu/scanner"
	"github.com/rcornwell/m65832asm/emu/section"
	"github.com/rcornwell/m65832asm/emu/symtab"
)

// MaxIncludeDepth bounds the .INCLUDE stack: a fixed depth limit rather
// than cycle detection.
const MaxIncludeDepth = 16

// frame is one entry of the include stack: a source file's lines and the
// read position within them.
type frame struct {
	file string
	dir  string
	line []string
	pos  int
}

// Assembler holds every piece of state a pass needs. One Assembler is
// created per invocation and reused across both passes; runPass resets
// the per-pass parts and leaves the symbol table and section buffers
// (which both passes build incrementally) alone.
type Assembler struct {
	Sections *section.Manager
	Syms     *symtab.Table
	Diags    *diag.Bag

	M, X int // processor-mode width flags (8, 16, or 32)
	pass int

	file string
	line int

	includePaths []string
	includeStack []*frame

	cfi *cfiState

	Verbose bool
}

// New creates an assembler ready to run pass 1. Width flags default to 32.
func New(includePaths []string) *Assembler {
	return &Assembler{
		Sections:     section.NewManager(),
		Syms:         symtab.New(),
		Diags:        &diag.Bag{},
		M:            32,
		X:            32,
		includePaths: includePaths,
		cfi:          newCFIState(),
	}
}

// PC implements scanner.Resolver: '*' in an expression evaluates to the
// current section's program counter.
func (a *Assembler) PC() uint32 {
	return a.Sections.Current().PC
}

// Lookup implements scanner.Resolver by delegating to the symbol table.
func (a *Assembler) Lookup(name string) (uint32, bool) {
	return a.Syms.Lookup(name)
}

func (a *Assembler) errf(format string, args ...interface{}) {
	a.Diags.Errorf(a.file, a.line, format, args...)
}

func (a *Assembler) warnf(format string, args ...interface{}) {
	a.Diags.Warnf(a.file, a.line, format, args...)
}

// AssembleFile runs both passes over path and returns the Assembler, whose
// Sections, Syms and Diags hold the result. It is the toolchain's single
// public entry point:
// cmd/assemble calls only this.
func AssembleFile(path string, includePaths []string, verbose bool) (*Assembler, error) {
	a := New(includePaths)
	a.Verbose = verbose

	a.pass = 1
	a.M, a.X = 32, 32
	if err := a.runPass(path); err != nil {
		return a, err
	}

	relocs := a.Sections.Link()
	for _, r := range relocs {
		a.Syms.AdjustSection(r.SectionIndex, r.Delta)
	}

	a.pass = 2
	a.M, a.X = 32, 32
	a.cfi = newCFIState()
	if err := a.runPass(path); err != nil {
		return a, err
	}

	for _, s := range a.Syms.Undefined() {
		a.Diags.Errorf(path, s.Line, "undefined symbol %s", s.Name)
	}
	return a, nil
}

// runPass resets every section's PC, makes TEXT the current section again,
// and walks the root file once, end to end, resolving .INCLUDE recursively.
func (a *Assembler) runPass(path string) error {
	a.Sections.ResetPCs()
	a.Sections.Switch("TEXT")
	a.includeStack = nil
	return a.processFile(path)
}

func (a *Assembler) processFile(path string) error {
	if len(a.includeStack) >= MaxIncludeDepth {
		return fmt.Errorf("include depth exceeds %d", MaxIncludeDepth)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fr := &frame{file: path, dir: filepath.Dir(path), line: strings.Split(string(data), "\n")}
	a.includeStack = append(a.includeStack, fr)
	defer func() { a.includeStack = a.includeStack[:len(a.includeStack)-1] }()

	for fr.pos < len(fr.line) {
		raw := fr.line[fr.pos]
		fr.pos++
		a.file = fr.file
		a.line = fr.pos
		if err := a.processLine(raw, fr.dir); err != nil {
			return err
		}
	}
	return nil
}

// resolveInclude finds name on the current file's directory, then each
// -I path in order.
func (a *Assembler) resolveInclude(name string, curDir string) (string, error) {
	candidates := append([]string{curDir}, a.includePaths...)
	for _, dir := range candidates {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("include file %s not found", name)
}

// processLine implements the label-disambiguation rules and then dispatches
// the remaining directive-or-mnemonic token.
func (a *Assembler) processLine(raw string, curDir string) error {
	stripped := scanner.StripComment(raw)
	hasLeadingSpace := stripped != "" && (stripped[0] == ' ' || stripped[0] == '\t')

	tok, rest := scanner.TakeWord(stripped)
	if tok == "" {
		return nil
	}

	if tok == "*" {
		rest = scanner.SkipSpace(rest)
		if strings.HasPrefix(rest, "=") {
			return a.handleOrg(rest[1:])
		}
	}

	if strings.HasSuffix(tok, ":") {
		a.defineLabel(tok[:len(tok)-1])
		tok, rest = scanner.TakeWord(rest)
		if tok == "" {
			return nil
		}
	} else {
		// "NAME EQU expr" / "NAME = expr": the equate form names its symbol
		// with no colon.
		next, afterNext := scanner.TakeWord(rest)
		upperNext := strings.ToUpper(next)
		if next == "=" || upperNext == "EQU" {
			return a.doEquate(tok, afterNext)
		}
		if !hasLeadingSpace && !a.isKnownOp(tok) {
			a.defineLabel(tok)
			tok, rest = scanner.TakeWord(rest)
			if tok == "" {
				return nil
			}
		}
	}

	return a.dispatch(tok, rest, curDir)
}

func (a *Assembler) defineLabel(name string) {
	sec := a.Sections.Current()
	if err := a.Syms.Define(name, sec.PC, a.line, a.Sections.Index(sec.Name), a.pass); err != nil {
		a.errf("%v", err)
	}
}

func (a *Assembler) doEquate(name string, exprText string) error {
	v, rest, err := scanner.Eval(exprText, a)
	if err != nil {
		a.errf("%v", err)
		return nil
	}
	if scanner.SkipSpace(rest) != "" {
		a.errf("unexpected text after equate: %q", rest)
	}
	if err := a.Syms.Define(name, v.Value, a.line, symtab.NoSection, a.pass); err != nil {
		a.errf("%v", err)
	}
	return nil
}

// isKnownOp reports whether tok names a directive or an instruction
// mnemonic, used by the label-disambiguation rule above.
func (a *Assembler) isKnownOp(tok string) bool {
	if opcodemap.IsFPUMnemonic(strings.ToUpper(tok)) {
		return true
	}
	upper, _ := sizeSuffix(strings.ToUpper(tok))
	if isDirective(upper) {
		return true
	}
	if opcodemap.IsBarrelMnemonic(upper) || opcodemap.IsBitFieldMnemonic(upper) ||
		opcodemap.IsFPUMnemonic(upper) || opcodemap.IsExtMnemonic(upper) {
		return true
	}
	if _, ok := opcodemap.ALUOpcode(upper); ok {
		return true
	}
	if len(opcodemap.StdModes(upper)) > 0 || opcodemap.IsShortBranch(upper) || upper == "MVP" || upper == "MVN" {
		return true
	}
	return false
}

// Encode classifies mnemonic and encodes operandText against the plane
// it belongs to: barrel shifter, bit-field unit, FPU, extended-ALU, the
// other extended-plane mnemonics, or the standard 65816-derived plane.
func (a *Assembler) Encode(mnemonicRaw string, operandText string) ([]byte, error) {
	operandText = strings.TrimSpace(operandText)
	// FPU mnemonics carry their precision (.S/.D) as part of the name, so
	// they are matched before any size suffix is split off.
	if full := strings.ToUpper(mnemonicRaw); opcodemap.IsFPUMnemonic(full) {
		return a.encodeFPU(full, operandText)
	}
	mnemonic, suffix := sizeSuffix(strings.ToUpper(mnemonicRaw))

	switch {
	case opcodemap.IsBarrelMnemonic(mnemonic):
		// ROL/ROR name both a barrel-shifter and an extended-ALU op: only
		// the three-operand "dst, src, count" form goes to the shifter.
		_, isALU := opcodemap.ALUOpcode(mnemonic)
		_, rem, two := splitTopComma(operandText)
		_, _, three := splitTopComma(rem)
		if !isALU || (two && three) {
			return a.encodeBarrel(mnemonic, operandText)
		}
	case opcodemap.IsBitFieldMnemonic(mnemonic):
		return a.encodeBitField(mnemonic, operandText)
	case opcodemap.IsFPUMnemonic(mnemonic):
		return a.encodeFPU(mnemonic, operandText)
	}
	if _, ok := opcodemap.ALUOpcode(mnemonic); ok {
		return a.encodeExtALU(mnemonic, operandText, suffix)
	}
	if opcodemap.IsExtMnemonic(mnemonic) {
		return a.encodeExtDirect(mnemonic, operandText)
	}

	v, err := operand.Parse(operandText, a)
	if err != nil {
		return nil, err
	}
	return a.encodeStd(mnemonic, v, suffix)
}

// emit commits or counts n bytes against the current section, per pass:
// pass 1 only advances the section's size, pass 2 actually writes bytes.
func (a *Assembler) emit(bytes []byte) {
	sec := a.Sections.Current()
	if a.pass == 1 {
		sec.Advance(uint32(len(bytes)))
		return
	}
	for _, b := range bytes {
		sec.EmitByte(b)
	}
}
