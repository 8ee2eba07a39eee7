/*
	M65832 Assembler Toolchain - Operand parser

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

// Package operand classifies the text after a mnemonic into a tagged
// addressing-mode value, disambiguating dp/abs/abs-long/abs32 forms by the
// parsed value's numeric width.
package operand

import (
	"fmt"
	"strings"

	"github.com/rcornwell/m65832asm/emu/opcodemap"
	"github.com/rcornwell/m65832asm/emu/scanner"
)

// Value is the parsed, classified form of one instruction's operand text.
// It is a value object: produced fresh for each instruction and never
// retained past encoding.
type Value struct {
	Mode      opcodemap.Mode
	Primary   scanner.Result // the main expression (address, immediate, displacement src for MVP/MVN)
	Secondary scanner.Result // MVP/MVN's dst operand only
	BRelative bool           // explicit B+offset syntax was used
	HasValue  bool           // false only for ModeImplied/ModeAccumulator
}

// Parse classifies str (the text immediately after the mnemonic) into a
// Value, using res to evaluate any expressions encountered.
func Parse(str string, res scanner.Resolver) (Value, error) {
	str = scanner.SkipSpace(str)
	if str == "" {
		return Value{Mode: opcodemap.ModeImplied}, nil
	}
	if str == "A" || str == "a" {
		return Value{Mode: opcodemap.ModeAccumulator}, nil
	}

	if str[0] == '#' {
		v, rest, err := scanner.Eval(str[1:], res)
		if err != nil {
			return Value{}, err
		}
		if scanner.SkipSpace(rest) != "" {
			return Value{}, fmt.Errorf("unexpected text after immediate operand: %q", rest)
		}
		return Value{Mode: opcodemap.ModeImmediate, Primary: v, HasValue: true}, nil
	}

	if str[0] == '(' || str[0] == '[' {
		return parseIndirect(str, res)
	}

	if strings.HasPrefix(str, "B+") || strings.HasPrefix(str, "b+") {
		v, rest, err := scanner.Eval(str[2:], res)
		if err != nil {
			return Value{}, err
		}
		if v.Value > 0xFFFF {
			return Value{}, fmt.Errorf("B-relative value does not fit in 16 bits")
		}
		if scanner.SkipSpace(rest) != "" {
			return Value{}, fmt.Errorf("unexpected text after operand: %q", rest)
		}
		return Value{Mode: opcodemap.ModeAbsolute, Primary: v, BRelative: true, HasValue: true}, nil
	}

	return parseDirectOrIndexed(str, res)
}

// parseDirectOrIndexed handles the plain "expr[,X|,Y|,S|,dst]" forms,
// fanning out to dp/abs/abs-long/abs32 by the value's width.
func parseDirectOrIndexed(str string, res scanner.Resolver) (Value, error) {
	v, rest, err := scanner.Eval(str, res)
	if err != nil {
		return Value{}, err
	}
	rest = scanner.SkipSpace(rest)

	if rest != "" && rest[0] == ',' {
		tail := scanner.SkipSpace(rest[1:])
		switch {
		case strings.HasPrefix(tail, "X") || strings.HasPrefix(tail, "x"):
			if scanner.SkipSpace(tail[1:]) != "" {
				return Value{}, fmt.Errorf("unexpected text after operand: %q", tail[1:])
			}
			return Value{Mode: widthToIndexedX(v), Primary: v, HasValue: true}, nil
		case strings.HasPrefix(tail, "Y") || strings.HasPrefix(tail, "y"):
			if scanner.SkipSpace(tail[1:]) != "" {
				return Value{}, fmt.Errorf("unexpected text after operand: %q", tail[1:])
			}
			return Value{Mode: widthToIndexedY(v), Primary: v, HasValue: true}, nil
		case strings.HasPrefix(tail, "S") || strings.HasPrefix(tail, "s"):
			if scanner.SkipSpace(tail[1:]) != "" {
				return Value{}, fmt.Errorf("unexpected text after operand: %q", tail[1:])
			}
			return Value{Mode: opcodemap.ModeStackRel, Primary: v, HasValue: true}, nil
		default:
			// block move: "src,dst"
			dst, rest2, err := scanner.Eval(tail, res)
			if err != nil {
				return Value{}, err
			}
			if scanner.SkipSpace(rest2) != "" {
				return Value{}, fmt.Errorf("unexpected text after block-move operand: %q", rest2)
			}
			return Value{Mode: opcodemap.ModeBlockMove, Primary: v, Secondary: dst, HasValue: true}, nil
		}
	}
	if rest != "" {
		return Value{}, fmt.Errorf("unexpected text after operand: %q", rest)
	}
	return Value{Mode: widthToDirect(v), Primary: v, HasValue: true}, nil
}

// widthToDirect classifies dp/abs/abs-long/abs32 fan-out by v's numeric
// width. A still-undefined forward reference (v.Undefined != "") carries no
// usable magnitude yet — its placeholder value is always 0, which would
// otherwise always resolve to the narrowest mode (dp) in pass 1, only to
// have pass 2 resolve the real, larger address to a wider mode once the
// symbol is defined. Absolute is committed to instead, the same fallback
// promoteMode already promotes a direct-page-only opcode to, so pass 1's
// predicted size is stable and doesn't depend on a meaningless placeholder.
func widthToDirect(v scanner.Result) opcodemap.Mode {
	if v.Undefined != "" {
		return opcodemap.ModeAbsolute
	}
	switch {
	case v.Value <= 0xFF:
		return opcodemap.ModeDirect
	case v.Value <= 0xFFFF:
		return opcodemap.ModeAbsolute
	case v.Value <= 0xFFFFFF:
		return opcodemap.ModeAbsoluteLong
	default:
		return opcodemap.ModeAbsolute32
	}
}

func widthToIndexedX(v scanner.Result) opcodemap.Mode {
	if v.Undefined != "" {
		return opcodemap.ModeAbsoluteX
	}
	switch {
	case v.Value <= 0xFF:
		return opcodemap.ModeDirectX
	case v.Value <= 0xFFFF:
		return opcodemap.ModeAbsoluteX
	case v.Value <= 0xFFFFFF:
		return opcodemap.ModeAbsoluteLongX
	default:
		return opcodemap.ModeAbsolute32X
	}
}

func widthToIndexedY(v scanner.Result) opcodemap.Mode {
	if v.Undefined != "" {
		return opcodemap.ModeAbsoluteY
	}
	switch {
	case v.Value <= 0xFF:
		return opcodemap.ModeDirectY
	case v.Value <= 0xFFFF:
		return opcodemap.ModeAbsoluteY
	case v.Value <= 0xFFFFFF:
		// No abs-long,Y form exists on the standard plane; this is a
		// deliberately unencodable mode so the encoder reports "addressing
		// mode not valid" instead of silently truncating the address.
		return opcodemap.ModeAbsoluteLongY
	default:
		return opcodemap.ModeAbsolute32Y
	}
}

// parseIndirect handles every operand beginning with '(' or '[': (dp,X),
// (dp),Y, (dp), [dp], [dp],Y, (sr,S),Y, (abs), (abs,X), [abs], plus the
// extended-ALU-only 32-bit forms (abs32), (abs32,X), [abs32].
func parseIndirect(str string, res scanner.Resolver) (Value, error) {
	open := str[0]
	closeByte := byte(')')
	if open == '[' {
		closeByte = ']'
	}
	inner := str[1:]

	v, rest, err := scanner.Eval(inner, res)
	if err != nil {
		return Value{}, err
	}
	rest = scanner.SkipSpace(rest)

	hasX, hasS := false, false
	if rest != "" && rest[0] == ',' {
		tail := scanner.SkipSpace(rest[1:])
		switch {
		case strings.HasPrefix(tail, "X") || strings.HasPrefix(tail, "x"):
			hasX = true
			rest = scanner.SkipSpace(tail[1:])
		case strings.HasPrefix(tail, "S") || strings.HasPrefix(tail, "s"):
			hasS = true
			rest = scanner.SkipSpace(tail[1:])
		default:
			return Value{}, fmt.Errorf("unexpected text in indirect operand: %q", tail)
		}
	}
	if rest == "" || rest[0] != closeByte {
		return Value{}, fmt.Errorf("unmatched bracket in operand")
	}
	rest = scanner.SkipSpace(rest[1:])

	hasTrailingY := false
	if rest != "" && rest[0] == ',' {
		tail := scanner.SkipSpace(rest[1:])
		if !(strings.HasPrefix(tail, "Y") || strings.HasPrefix(tail, "y")) {
			return Value{}, fmt.Errorf("unexpected text after indirect operand: %q", tail)
		}
		hasTrailingY = true
		rest = scanner.SkipSpace(tail[1:])
	}
	if rest != "" {
		return Value{}, fmt.Errorf("unexpected text after operand: %q", rest)
	}

	// A still-undefined forward reference has no usable magnitude yet (see
	// widthToDirect); commit to the abs-indirect fan-out, the same one
	// promoteMode falls back to for a direct-page-only opcode, so the mode
	// chosen here doesn't depend on the placeholder value's meaningless 0.
	isAbs := v.Undefined != "" || (v.Value > 0xFF && v.Value <= 0xFFFF)
	isAbs32 := v.Undefined == "" && v.Value > 0xFFFF

	switch {
	case hasS && hasTrailingY:
		return Value{Mode: opcodemap.ModeStackRelIndY, Primary: v, HasValue: true}, nil
	case hasX && isAbs32:
		return Value{Mode: opcodemap.ModeAbsolute32IndX, Primary: v, HasValue: true}, nil
	case hasX && isAbs:
		return Value{Mode: opcodemap.ModeAbsoluteIndX, Primary: v, HasValue: true}, nil
	case hasX:
		return Value{Mode: opcodemap.ModeDirectIndX, Primary: v, HasValue: true}, nil
	case hasTrailingY && open == '[':
		return Value{Mode: opcodemap.ModeDirectIndLongY, Primary: v, HasValue: true}, nil
	case hasTrailingY:
		return Value{Mode: opcodemap.ModeDirectIndY, Primary: v, HasValue: true}, nil
	case open == '[' && isAbs32:
		return Value{Mode: opcodemap.ModeAbsolute32IndLong, Primary: v, HasValue: true}, nil
	case open == '[' && isAbs:
		return Value{Mode: opcodemap.ModeAbsoluteIndLong, Primary: v, HasValue: true}, nil
	case open == '[':
		return Value{Mode: opcodemap.ModeDirectIndLong, Primary: v, HasValue: true}, nil
	case isAbs32:
		return Value{Mode: opcodemap.ModeAbsolute32Ind, Primary: v, HasValue: true}, nil
	case isAbs:
		return Value{Mode: opcodemap.ModeAbsoluteInd, Primary: v, HasValue: true}, nil
	default:
		return Value{Mode: opcodemap.ModeDirectInd, Primary: v, HasValue: true}, nil
	}
}
