/*
	M65832 Assembler Toolchain - Directive table

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
	"errors"
	"strings"

	"github.com/rcornwell/m65832asm/emu/scanner"
)

// directiveAliases maps every recognized directive spelling to a canonical
// name used by the switch in handleDirective.
var directiveAliases = map[string]string{
	".ORG": "ORG", "ORG": "ORG",

	".BYTE": "BYTE", ".DB": "BYTE", ".DCB": "BYTE",
	".ASCII": "ASCII", ".ASCIZ": "ASCIZ", ".STRING": "ASCIZ",
	".WORD": "WORD", ".DW": "WORD", ".DCW": "WORD",
	".LONG": "LONG", ".DL": "LONG", ".DCL": "LONG", ".DWORD": "LONG", ".DD": "LONG",
	".DS": "SPACE", ".RES": "SPACE", ".SPACE": "SPACE", ".ZERO": "SPACE",

	".ALIGN": "ALIGN", ".P2ALIGN": "P2ALIGN",

	".M8": "M8", ".A8": "M8", ".M16": "M16", ".A16": "M16", ".M32": "M32", ".A32": "M32",
	".X8": "X8", ".I8": "X8", ".X16": "X16", ".I16": "X16", ".X32": "X32", ".I32": "X32",

	".TEXT": "TEXT", ".CODE": "TEXT", ".DATA": "DATA", ".RODATA": "RODATA",
	".BSS": "BSS", ".SECTION": "SECTION",

	".INCLUDE": "INCLUDE", ".INC": "INCLUDE",

	".EQU": "EQU", "EQU": "EQU", ".SET": "EQU",

	".GLOBL": "NOP", ".GLOBAL": "NOP", ".FILE": "NOP", ".TYPE": "NOP",
	".SIZE": "NOP", ".IDENT": "NOP", ".ADDRSIG": "NOP", ".ADDRSIG_SYM": "NOP",
}

// isDirective reports whether upper names a directive (including every
// .CFI_* spelling).
func isDirective(upper string) bool {
	if _, ok := directiveAliases[upper]; ok {
		return true
	}
	return strings.HasPrefix(upper, ".CFI_")
}

func (a *Assembler) dispatch(tok string, rest string, curDir string) error {
	upper := strings.ToUpper(tok)
	if strings.HasPrefix(upper, ".CFI_") {
		a.handleCFI(upper, rest)
		return nil
	}
	if canon, ok := directiveAliases[upper]; ok {
		return a.handleDirective(canon, rest, curDir)
	}

	bytes, err := a.Encode(tok, rest)
	if err != nil {
		a.errf("%v", err)
		return nil
	}
	a.emit(bytes)
	return nil
}

func (a *Assembler) handleOrg(exprText string) error {
	v, rest, err := scanner.Eval(exprText, a)
	if err != nil {
		a.errf("%v", err)
		return nil
	}
	if scanner.SkipSpace(rest) != "" {
		a.errf("unexpected text after .ORG: %q", rest)
	}
	a.Sections.Current().SetPC(v.Value)
	return nil
}

// splitArgs splits a comma-separated directive argument list, honoring
// double-quoted strings, and bracket nesting the way splitTopComma does
// for a single pair.
func splitArgs(str string) []string {
	var out []string
	depth := 0
	inStr := false
	start := 0
	for i := 0; i < len(str); i++ {
		c := str[i]
		switch {
		case c == '"':
			inStr = !inStr
		case inStr:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			out = append(out, strings.TrimSpace(str[start:i]))
			start = i + 1
		}
	}
	out = append(out, strings.TrimSpace(str[start:]))
	return out
}

func (a *Assembler) handleDirective(canon string, rest string, curDir string) error {
	switch canon {
	case "ORG":
		return a.handleOrg(rest)
	case "NOP":
		return nil
	case "BYTE":
		for _, arg := range splitArgs(rest) {
			if arg == "" {
				continue
			}
			v, _, err := scanner.Eval(arg, a)
			if err != nil {
				a.errf("%v", err)
				continue
			}
			a.emit([]byte{byte(v.Value)})
		}
		return nil
	case "WORD":
		for _, arg := range splitArgs(rest) {
			if arg == "" {
				continue
			}
			v, _, err := scanner.Eval(arg, a)
			if err != nil {
				a.errf("%v", err)
				continue
			}
			a.emit([]byte{byte(v.Value), byte(v.Value >> 8)})
		}
		return nil
	case "LONG":
		// 32-bit per this implementation's canonical dialect (see DESIGN.md's
		// Open Questions: some source versions use 24 bits here instead).
		for _, arg := range splitArgs(rest) {
			if arg == "" {
				continue
			}
			v, _, err := scanner.Eval(arg, a)
			if err != nil {
				a.errf("%v", err)
				continue
			}
			a.emit([]byte{byte(v.Value), byte(v.Value >> 8), byte(v.Value >> 16), byte(v.Value >> 24)})
		}
		return nil
	case "ASCII", "ASCIZ":
		s, err := parseQuoted(rest)
		if err != nil {
			a.errf("%v", err)
			return nil
		}
		a.emit([]byte(s))
		if canon == "ASCIZ" {
			a.emit([]byte{0})
		}
		return nil
	case "SPACE":
		v, _, err := scanner.Eval(rest, a)
		if err != nil {
			a.errf("%v", err)
			return nil
		}
		zeros := make([]byte, v.Value)
		a.emit(zeros)
		return nil
	case "ALIGN":
		return a.handleAlign(rest, false)
	case "P2ALIGN":
		return a.handleAlign(rest, true)
	case "M8":
		a.M = 8
	case "M16":
		a.M = 16
	case "M32":
		a.M = 32
	case "X8":
		a.X = 8
	case "X16":
		a.X = 16
	case "X32":
		a.X = 32
	case "TEXT":
		a.switchSection("TEXT")
	case "DATA":
		a.switchSection("DATA")
	case "RODATA":
		a.switchSection("RODATA")
	case "BSS":
		a.switchSection("BSS")
	case "SECTION":
		name, _ := scanner.TakeWord(rest)
		a.switchSection(strings.ToUpper(strings.Trim(name, ",")))
	case "INCLUDE":
		name, err := parseQuoted(rest)
		if err != nil {
			a.errf("%v", err)
			return nil
		}
		path, err := a.resolveInclude(name, curDir)
		if err != nil {
			a.errf("%v", err)
			return nil
		}
		return a.processFile(path)
	case "EQU":
		name, expr := scanner.TakeWord(rest)
		return a.doEquate(name, expr)
	}
	return nil
}

func (a *Assembler) switchSection(name string) {
	if _, err := a.Sections.Switch(name); err != nil {
		a.errf("%v", err)
	}
}

func (a *Assembler) handleAlign(rest string, isPower bool) error {
	v, _, err := scanner.Eval(rest, a)
	if err != nil {
		a.errf("%v", err)
		return nil
	}
	n := v.Value
	if isPower {
		n = 1 << n
	}
	if n == 0 {
		return nil
	}
	pc := a.PC()
	pad := (n - pc%n) % n
	a.emit(make([]byte, pad))
	return nil
}

// parseQuoted extracts a double-quoted string literal, interpreting the
// same backslash escapes as a character constant.
func parseQuoted(str string) (string, error) {
	str = scanner.SkipSpace(str)
	if str == "" || str[0] != '"' {
		return "", errBadString
	}
	var b strings.Builder
	i := 1
	for i < len(str) && str[i] != '"' {
		if str[i] == '\\' && i+1 < len(str) {
			i++
			switch str[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteByte(str[i])
			}
			i++
			continue
		}
		b.WriteByte(str[i])
		i++
	}
	if i >= len(str) {
		return "", errUnterminatedString
	}
	return b.String(), nil
}

var errBadString = errors.New("expected a quoted string")
var errUnterminatedString = errors.New("unterminated string literal")
