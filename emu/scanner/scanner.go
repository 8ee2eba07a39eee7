/*
	M65832 Assembler Toolchain - Source scanner

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

// Package scanner provides the line-oriented lexing helpers and the
// expression evaluator shared by the assembler and its directive handlers,
// built as hand-rolled, rune-by-rune scanning functions (SkipSpace/TakeWord/
// TakeIdent and the evaluator in expr.go) rather than text/scanner or a
// regex-based tokenizer.
package scanner

import (
	"strings"
	"unicode"
)

// SkipSpace returns str with any leading whitespace removed.
func SkipSpace(str string) string {
	for i := range str {
		if !unicode.IsSpace(rune(str[i])) {
			return str[i:]
		}
	}
	return ""
}

// StripComment removes a trailing ';' comment, honoring quoted strings and
// character literals so a ';' inside one is not treated as a comment start.
func StripComment(line string) string {
	inChar := false
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\'' && !inString:
			inChar = !inChar
		case c == '"' && !inChar:
			inString = !inString
		case c == ';' && !inChar && !inString:
			return line[:i]
		}
	}
	return line
}

// TakeWord returns the next whitespace-delimited word and the remainder.
func TakeWord(str string) (string, string) {
	str = SkipSpace(str)
	for i := range str {
		if unicode.IsSpace(rune(str[i])) {
			return str[:i], str[i+1:]
		}
	}
	return str, ""
}

// IsIdentStart reports whether r can start an identifier: a letter, '_' or
// '.'. Identifiers may not begin with a digit.
func IsIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '.'
}

// IsIdentCont reports whether r can continue an identifier: letter, digit,
// '_', or '.' (so local labels like ".L1" scan as one identifier).
func IsIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

// TakeIdent scans a leading identifier from str, returning it and the rest
// of the line. Returns ("", str) if str does not start with an identifier.
func TakeIdent(str string) (string, string) {
	if str == "" || !IsIdentStart(rune(str[0])) {
		return "", str
	}
	i := 1
	for i < len(str) && IsIdentCont(rune(str[i])) {
		i++
	}
	return str[:i], str[i:]
}

// MaxIdentLen bounds identifier length.
const MaxIdentLen = 64

// FoldName applies the case-folding rule: every identifier is folded to
// upper case except local labels beginning with ".L", which preserve case.
func FoldName(name string) string {
	if strings.HasPrefix(name, ".L") {
		return name
	}
	return strings.ToUpper(name)
}

// Peek returns the first non-space byte of str without consuming it, or 0
// if str is empty or all whitespace.
func Peek(str string) byte {
	str = SkipSpace(str)
	if str == "" {
		return 0
	}
	return str[0]
}
