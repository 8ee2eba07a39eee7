/*
	M65832 Assembler Toolchain - Section manager

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

// Package section implements the assembler's fixed-capacity set of named
// output sections. Each section owns a growable byte buffer addressed
// relative to its origin; a write grows the buffer to reach its address,
// filling any gap with FillByte. Writes are not bounds-checked.
package section

import "fmt"

// MaxSections bounds the section table.
const MaxSections = 64

// FillByte is written into any gap inside a section's buffer that pass 2
// never explicitly emitted.
const FillByte = 0xFF

// Section is one named region of output.
type Section struct {
	Name      string
	Origin    uint32
	OriginSet bool
	PC        uint32
	buf       []byte
}

// Size returns the number of bytes committed to the section so far.
func (s *Section) Size() uint32 { return uint32(len(s.buf)) }

// End returns the address just past the last committed byte.
func (s *Section) End() uint32 { return s.Origin + s.Size() }

// Bytes returns the section's committed byte buffer.
func (s *Section) Bytes() []byte { return s.buf }

// SetPC moves the section's program counter. The first call on a fresh
// section also anchors its origin: the first .ORG inside a section both
// sets the origin and is the only opportunity to do so.
func (s *Section) SetPC(addr uint32) {
	if !s.OriginSet {
		s.Origin = addr
		s.OriginSet = true
	}
	s.PC = addr
}

// ResetPC rewinds PC to Origin at the start of a pass.
func (s *Section) ResetPC() {
	s.PC = s.Origin
}

// Rebase shifts Origin (and any already-committed PC) by delta, used by
// section linking when placing a section that had no explicit origin.
func (s *Section) Rebase(delta uint32) {
	s.Origin += delta
	s.PC += delta
}

// grow extends buf, if needed, so index idx is addressable, filling any
// new gap with FillByte.
func (s *Section) grow(idx int) {
	for len(s.buf) <= idx {
		s.buf = append(s.buf, FillByte)
	}
}

// EmitByte commits one byte at the current PC and advances PC. Pass 1
// uses a counting policy instead of this method (see emu/assembler); only
// pass 2 calls EmitByte.
func (s *Section) EmitByte(b byte) {
	idx := int(s.PC - s.Origin)
	s.grow(idx)
	s.buf[idx] = b
	s.PC++
}

// Advance moves PC forward by n bytes without committing any buffer
// content, and (if n bytes would extend the section past its previously
// seen end) records that extent in Size via a placeholder grow. This is
// pass 1's size-only emission policy: it learns how big the section
// becomes without writing pass 1's (possibly symbol-incomplete) bytes
// anywhere.
func (s *Section) Advance(n uint32) {
	idx := int(s.PC - s.Origin + n)
	if idx > 0 {
		s.grow(idx - 1)
	}
	s.PC += n
}

// Manager owns the fixed-capacity section table.
type Manager struct {
	sections []*Section
	index    map[string]int
	current  int
}

// NewManager creates a manager with the four standard sections
// pre-declared, in the fixed order TEXT, RODATA, DATA, BSS, matching the
// order sections link in (RODATA, DATA, BSS after TEXT).
func NewManager() *Manager {
	m := &Manager{index: make(map[string]int)}
	for _, name := range []string{"TEXT", "RODATA", "DATA", "BSS"} {
		m.declare(name)
	}
	m.current = 0
	return m
}

func (m *Manager) declare(name string) *Section {
	s := &Section{Name: name}
	m.sections = append(m.sections, s)
	m.index[name] = len(m.sections) - 1
	return s
}

// Switch selects name as the current section, declaring it (subject to
// MaxSections) if it has not been seen before, and returns it.
func (m *Manager) Switch(name string) (*Section, error) {
	if i, ok := m.index[name]; ok {
		m.current = i
		return m.sections[i], nil
	}
	if len(m.sections) >= MaxSections {
		return nil, fmt.Errorf("too many sections")
	}
	m.declare(name)
	m.current = len(m.sections) - 1
	return m.sections[m.current], nil
}

// Current returns the section currently selected.
func (m *Manager) Current() *Section {
	return m.sections[m.current]
}

// Index returns the table index of the section named name, or -1.
func (m *Manager) Index(name string) int {
	if i, ok := m.index[name]; ok {
		return i
	}
	return -1
}

// ByIndex returns the section at index i.
func (m *Manager) ByIndex(i int) *Section {
	return m.sections[i]
}

// All returns every declared section, in declaration order.
func (m *Manager) All() []*Section {
	return m.sections
}

// ResetPCs rewinds every section's PC to its origin, for the start of a
// pass.
func (m *Manager) ResetPCs() {
	for _, s := range m.sections {
		s.ResetPC()
	}
}

// align4 rounds addr up to the next multiple of 4.
func align4(addr uint32) uint32 {
	return (addr + 3) &^ 3
}

// Relocation records that a section's origin moved by Delta during
// linking, so callers (the symbol table) can adjust symbol values that
// were recorded relative to the section's old origin.
type Relocation struct {
	SectionIndex int
	Delta        uint32
}

// Link assigns an origin to every section other than TEXT whose origin
// was never set by an explicit .ORG and whose size is nonzero, in the
// fixed order RODATA, DATA, BSS, then any remaining user sections in
// declaration order, each placed after the previous section's end
// rounded up to a 4-byte boundary, starting from align4(TEXT.origin +
// TEXT.size).
func (m *Manager) Link() []Relocation {
	text := m.sections[m.index["TEXT"]]
	next := align4(text.Origin + text.Size())

	order := []string{"RODATA", "DATA", "BSS"}
	placed := map[int]bool{m.index["TEXT"]: true}
	var relocs []Relocation

	place := func(s *Section, idx int) {
		if s.OriginSet || s.Size() == 0 {
			placed[idx] = true
			if s.OriginSet {
				next = align4(s.Origin + s.Size())
			}
			return
		}
		delta := next - s.Origin
		s.Rebase(delta)
		s.OriginSet = true
		next = align4(s.End())
		relocs = append(relocs, Relocation{SectionIndex: idx, Delta: delta})
		placed[idx] = true
	}

	for _, name := range order {
		idx, ok := m.index[name]
		if !ok {
			continue
		}
		place(m.sections[idx], idx)
	}
	for idx, s := range m.sections {
		if placed[idx] {
			continue
		}
		place(s, idx)
	}
	return relocs
}
