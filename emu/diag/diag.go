/*
	M65832 Assembler Toolchain - Diagnostic accumulator

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
package diag

import (
	"fmt"
	"io"
)

// Severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single accumulated message anchored to a source location.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
}

// Bag collects diagnostics across an entire assembler or disassembler run.
// Diagnostics are never thrown; callers keep going and report everything
// accumulated once the run completes.
type Bag struct {
	items []Diagnostic
}

// Errorf appends an error diagnostic.
func (b *Bag) Errorf(file string, line int, format string, a ...interface{}) {
	b.items = append(b.items, Diagnostic{Error, file, line, fmt.Sprintf(format, a...)})
}

// Warnf appends a warning diagnostic. Warnings never affect ErrorCount.
func (b *Bag) Warnf(file string, line int, format string, a ...interface{}) {
	b.items = append(b.items, Diagnostic{Warning, file, line, fmt.Sprintf(format, a...)})
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	return b.ErrorCount() > 0
}

// ErrorCount returns the number of Error-severity diagnostics.
func (b *Bag) ErrorCount() int {
	n := 0
	for _, d := range b.items {
		if d.Severity == Error {
			n++
		}
	}
	return n
}

// All returns every diagnostic in the order it was recorded.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// Fprint writes every diagnostic, one per line, to w.
func (b *Bag) Fprint(w io.Writer) {
	for _, d := range b.items {
		fmt.Fprintln(w, d.String())
	}
}
