/*
	M65832 Assembler Toolchain - Symbol table

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

// Package symtab implements the assembler's name -> (value, defined-flag,
// definition-line, owning-section) table, using a case-folded
// map-of-structs keyed by the scanner's FoldName.
package symtab

import (
	"fmt"

	"github.com/rcornwell/m65832asm/emu/scanner"
)

// NoSection marks a symbol with no owning section (an absolute value).
const NoSection = -1

// Symbol is one entry of the table.
type Symbol struct {
	Name    string // original spelling, before case folding
	Value   uint32
	Defined bool
	Line    int
	Section int // NoSection if absolute

	definedPass int
}

// Table is the assembler-wide symbol table. It is process-scope state:
// created once per assembler invocation and never shrinks.
type Table struct {
	syms  map[string]*Symbol
	order []string
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{syms: make(map[string]*Symbol)}
}

func key(name string) string {
	return scanner.FoldName(name)
}

// Lookup returns a symbol's value and whether it has been defined yet. An
// unknown name creates a placeholder entry (via Get) so that a name which
// is only ever referenced, never defined, still shows up in Undefined()
// at the end of pass 2.
func (t *Table) Lookup(name string) (uint32, bool) {
	s := t.Get(name)
	if !s.Defined {
		return 0, false
	}
	return s.Value, true
}

// Get returns the symbol for name, creating a placeholder (undefined,
// value 0) entry if it does not already exist. This is how pass 1 accepts
// a forward reference silently: the placeholder lets addressing-mode
// classification proceed without cascading failures.
func (t *Table) Get(name string) *Symbol {
	k := key(name)
	s, ok := t.syms[k]
	if !ok {
		s = &Symbol{Name: name, Section: NoSection}
		t.syms[k] = s
		t.order = append(t.order, k)
	}
	return s
}

// Define records a definition for name at value, owned by section, at the
// given source line, for the given pass number. Redefining to the same
// value within or across passes is accepted silently (a symbol's value
// may legitimately change between pass 1 and pass 2, e.g. after section
// linking); redefining to a different value within the same pass is an
// error.
func (t *Table) Define(name string, value uint32, line, section, pass int) error {
	s := t.Get(name)
	if s.Defined && s.definedPass == pass && s.Value != value {
		return fmt.Errorf("symbol %s redefined with a different value", name)
	}
	s.Value = value
	s.Defined = true
	s.Line = line
	s.Section = section
	s.definedPass = pass
	return nil
}

// AdjustSection shifts the value of every defined symbol owned by section
// by delta, used by section linking when a section's origin moves between
// pass 1 and pass 2.
func (t *Table) AdjustSection(section int, delta uint32) {
	for _, k := range t.order {
		s := t.syms[k]
		if s.Defined && s.Section == section {
			s.Value += delta
		}
	}
}

// All returns every symbol in the order it was first seen, whether by
// definition or by reference.
func (t *Table) All() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.syms[k])
	}
	return out
}

// Undefined returns every symbol that was referenced but never defined,
// in the order first referenced. Used at the end of pass 2 to report
// undefined-symbol errors; an undefined symbol is only a hard error once
// pass 2 has run out of chances to resolve it.
func (t *Table) Undefined() []*Symbol {
	var out []*Symbol
	for _, k := range t.order {
		s := t.syms[k]
		if !s.Defined {
			out = append(out, s)
		}
	}
	return out
}
