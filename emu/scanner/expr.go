/*
	M65832 Assembler Toolchain - Expression evaluator

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
package scanner

import (
	"errors"
	"strings"
)

// Resolver supplies the two pieces of outside state the expression
// evaluator needs: the current program counter (for '*') and symbol
// lookup. Lookup returns defined=false for an identifier that has not
// been defined yet; the caller (assembler pass logic) decides whether
// that is fatal.
type Resolver interface {
	PC() uint32
	Lookup(name string) (value uint32, defined bool)
}

// ErrDivByZero is returned for division or modulo by zero.
var ErrDivByZero = errors.New("division by zero")

// Result carries the value of an evaluated expression plus the name of
// the first undefined identifier encountered, if any. Pass 1 ignores an
// undefined name; pass 2 treats it as a hard error.
type Result struct {
	Value     uint32
	Undefined string
}

// Eval evaluates a prefix/binary expression from the front of str and
// returns the remainder of the line after the expression. The grammar:
// prefix unary operators (- < > ^), primaries (decimal, $hex, %binary,
// 0x-hex, 'c' char constants, * for PC, identifiers including R0..R63
// register aliases), and left-to-right binary operators (+ - * / % & | ^)
// with no precedence beyond parentheses.
func Eval(str string, res Resolver) (Result, string, error) {
	v, rest, err := evalTerm(str, res)
	if err != nil {
		return Result{}, rest, err
	}
	result := v
	rest = SkipSpace(rest)
	for rest != "" && isBinOp(rest[0]) {
		op := rest[0]
		rest = SkipSpace(rest[1:])
		rhs, next, err := evalTerm(rest, res)
		if err != nil {
			return Result{}, next, err
		}
		val, err := applyBinOp(op, result.Value, rhs.Value)
		if err != nil {
			return Result{}, next, err
		}
		if result.Undefined == "" {
			result.Undefined = rhs.Undefined
		}
		result.Value = val
		rest = SkipSpace(next)
	}
	return result, rest, nil
}

func isBinOp(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '%', '&', '|', '^':
		return true
	}
	return false
}

func applyBinOp(op byte, a, b uint32) (uint32, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, ErrDivByZero
		}
		return a / b, nil
	case '%':
		if b == 0 {
			return 0, ErrDivByZero
		}
		return a % b, nil
	case '&':
		return a & b, nil
	case '|':
		return a | b, nil
	case '^':
		return a ^ b, nil
	}
	return 0, errors.New("unknown operator")
}

// evalTerm parses an optional prefix operator followed by a primary (or a
// parenthesised sub-expression).
func evalTerm(str string, res Resolver) (Result, string, error) {
	str = SkipSpace(str)
	if str == "" {
		return Result{}, str, errors.New("missing operand")
	}
	switch str[0] {
	case '-':
		v, rest, err := evalTerm(str[1:], res)
		if err != nil {
			return Result{}, rest, err
		}
		v.Value = -v.Value
		return v, rest, nil
	case '<':
		v, rest, err := evalTerm(str[1:], res)
		if err != nil {
			return Result{}, rest, err
		}
		v.Value &= 0xff
		return v, rest, nil
	case '>':
		v, rest, err := evalTerm(str[1:], res)
		if err != nil {
			return Result{}, rest, err
		}
		v.Value = (v.Value >> 8) & 0xff
		return v, rest, nil
	case '^':
		v, rest, err := evalTerm(str[1:], res)
		if err != nil {
			return Result{}, rest, err
		}
		v.Value = (v.Value >> 16) & 0xff
		return v, rest, nil
	case '(':
		v, rest, err := Eval(str[1:], res)
		if err != nil {
			return Result{}, rest, err
		}
		rest = SkipSpace(rest)
		if rest == "" || rest[0] != ')' {
			return Result{}, rest, errors.New("unmatched bracket")
		}
		return v, rest[1:], nil
	}
	return evalPrimary(str, res)
}

func evalPrimary(str string, res Resolver) (Result, string, error) {
	c := str[0]
	switch {
	case c == '*':
		return Result{Value: res.PC()}, str[1:], nil
	case c == '$':
		return evalHex(str[1:])
	case c == '%':
		return evalBinary(str[1:])
	case c == '\'':
		return evalChar(str[1:])
	case c >= '0' && c <= '9':
		if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
			return evalHex(str[2:])
		}
		return evalDecimal(str)
	case IsIdentStart(rune(c)):
		name, rest := TakeIdent(str)
		if len(name) > MaxIdentLen {
			return Result{}, rest, errors.New("label too long")
		}
		if v, ok := RegisterAlias(name); ok {
			return Result{Value: v}, rest, nil
		}
		value, defined := res.Lookup(name)
		r := Result{Value: value}
		if !defined {
			r.Undefined = name
		}
		return r, rest, nil
	}
	return Result{}, str, errors.New("invalid expression")
}

func evalDecimal(str string) (Result, string, error) {
	i := 0
	var v uint32
	for i < len(str) && str[i] >= '0' && str[i] <= '9' {
		v = v*10 + uint32(str[i]-'0')
		i++
	}
	if i == 0 {
		return Result{}, str, errors.New("bad number")
	}
	return Result{Value: v}, str[i:], nil
}

func evalHex(str string) (Result, string, error) {
	i := 0
	var v uint32
	for i < len(str) && isHexDigit(str[i]) {
		v = v*16 + uint32(hexVal(str[i]))
		i++
	}
	if i == 0 {
		return Result{}, str, errors.New("bad number")
	}
	return Result{Value: v}, str[i:], nil
}

func evalBinary(str string) (Result, string, error) {
	i := 0
	var v uint32
	for i < len(str) && (str[i] == '0' || str[i] == '1') {
		v = v*2 + uint32(str[i]-'0')
		i++
	}
	if i == 0 {
		return Result{}, str, errors.New("bad number")
	}
	return Result{Value: v}, str[i:], nil
}

// evalChar parses a 'c' character literal (the leading quote is already
// consumed) supporting \n \r \t \0 \\ \' escapes.
func evalChar(str string) (Result, string, error) {
	if str == "" {
		return Result{}, str, errors.New("unterminated character literal")
	}
	var v byte
	i := 0
	if str[0] == '\\' {
		if len(str) < 2 {
			return Result{}, str, errors.New("bad character escape")
		}
		switch str[1] {
		case 'n':
			v = '\n'
		case 'r':
			v = '\r'
		case 't':
			v = '\t'
		case '0':
			v = 0
		case '\\':
			v = '\\'
		case '\'':
			v = '\''
		default:
			return Result{}, str, errors.New("bad character escape")
		}
		i = 2
	} else {
		v = str[0]
		i = 1
	}
	if i >= len(str) || str[i] != '\'' {
		return Result{}, str, errors.New("unterminated character literal")
	}
	return Result{Value: uint32(v)}, str[i+1:], nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

// RegisterAlias recognises R0..R63 and returns the aligned direct-page
// slot it names: 0, 4, 8, ..., 252.
func RegisterAlias(name string) (uint32, bool) {
	if len(name) < 2 || len(name) > 3 {
		return 0, false
	}
	if name[0] != 'R' && name[0] != 'r' {
		return 0, false
	}
	n := 0
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 0 || n > 63 {
		return 0, false
	}
	return uint32(n * 4), true
}
