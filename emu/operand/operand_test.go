/*
	M65832 Assembler Toolchain - Operand parser tests

	Copyright (c) 2024, Richard Cornwell
*/
package operand

import (
	"testing"

	"github.com/rcornwell/m65832asm/emu/opcodemap"
)

type fakeResolver struct {
	pc   uint32
	syms map[string]uint32
}

func (f fakeResolver) PC() uint32 { return f.pc }

func (f fakeResolver) Lookup(name string) (uint32, bool) {
	v, ok := f.syms[name]
	return v, ok
}

func TestParseModes(t *testing.T) {
	res := fakeResolver{pc: 0x1000, syms: map[string]uint32{"FOO": 0x2000}}
	tests := []struct {
		in   string
		mode opcodemap.Mode
	}{
		{"", opcodemap.ModeImplied},
		{"A", opcodemap.ModeAccumulator},
		{"#$42", opcodemap.ModeImmediate},
		{"$10", opcodemap.ModeDirect},
		{"$10,X", opcodemap.ModeDirectX},
		{"$10,Y", opcodemap.ModeDirectY},
		{"($10,X)", opcodemap.ModeDirectIndX},
		{"($10),Y", opcodemap.ModeDirectIndY},
		{"($10)", opcodemap.ModeDirectInd},
		{"[$10]", opcodemap.ModeDirectIndLong},
		{"[$10],Y", opcodemap.ModeDirectIndLongY},
		{"$1000", opcodemap.ModeAbsolute},
		{"$1000,X", opcodemap.ModeAbsoluteX},
		{"$1000,Y", opcodemap.ModeAbsoluteY},
		{"($1000)", opcodemap.ModeAbsoluteInd},
		{"($1000,X)", opcodemap.ModeAbsoluteIndX},
		{"[$1000]", opcodemap.ModeAbsoluteIndLong},
		{"$100000", opcodemap.ModeAbsoluteLong},
		{"$10,S", opcodemap.ModeStackRel},
		{"($10,S),Y", opcodemap.ModeStackRelIndY},
		{"$10,$20", opcodemap.ModeBlockMove},
		{"FOO", opcodemap.ModeAbsolute},
	}
	for _, tt := range tests {
		v, err := Parse(tt.in, res)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if v.Mode != tt.mode {
			t.Errorf("Parse(%q).Mode = %v, want %v", tt.in, v.Mode, tt.mode)
		}
	}
}

func TestParseUndefinedForwardReferenceCommitsToAbsolute(t *testing.T) {
	// An identifier the resolver has not defined yet carries a placeholder
	// value of 0, which must not be allowed to pick the narrowest (direct
	// page) mode -- pass 2 will almost certainly resolve the symbol to an
	// address above $FF, and the two passes must agree on the instruction's
	// size before either of them knows the real value.
	res := fakeResolver{pc: 0x1000, syms: map[string]uint32{}}
	v, err := Parse("undefined_label", res)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if v.Mode != opcodemap.ModeAbsolute {
		t.Errorf("Parse(undefined_label).Mode = %v, want ModeAbsolute", v.Mode)
	}

	vx, err := Parse("undefined_label,X", res)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if vx.Mode != opcodemap.ModeAbsoluteX {
		t.Errorf("Parse(undefined_label,X).Mode = %v, want ModeAbsoluteX", vx.Mode)
	}

	vy, err := Parse("undefined_label,Y", res)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if vy.Mode != opcodemap.ModeAbsoluteY {
		t.Errorf("Parse(undefined_label,Y).Mode = %v, want ModeAbsoluteY", vy.Mode)
	}

	vi, err := Parse("(undefined_label)", res)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if vi.Mode != opcodemap.ModeAbsoluteInd {
		t.Errorf("Parse((undefined_label)).Mode = %v, want ModeAbsoluteInd", vi.Mode)
	}
}

func TestParseBRelative(t *testing.T) {
	res := fakeResolver{}
	v, err := Parse("B+$1234", res)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !v.BRelative || v.Mode != opcodemap.ModeAbsolute {
		t.Errorf("Parse(B+$1234) = %+v, want BRelative absolute", v)
	}
}

func TestParseBlockMoveOrder(t *testing.T) {
	res := fakeResolver{}
	v, err := Parse("$10,$20", res)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if v.Primary.Value != 0x10 || v.Secondary.Value != 0x20 {
		t.Errorf("Parse(%q) = %+v, want Primary=src=0x10 Secondary=dst=0x20", "$10,$20", v)
	}
}
