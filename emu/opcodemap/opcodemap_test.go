/*
	M65832 Assembler Toolchain - Instruction table tests

	Copyright (c) 2024, Richard Cornwell
*/
package opcodemap

import "testing"

func TestStdEncodeDecodeRoundTrip(t *testing.T) {
	for op := 0; op < 256; op++ {
		e := stdTable[op]
		if e.Mnemonic == "" {
			continue
		}
		got, ok := StdEncode(e.Mnemonic, e.Mode)
		if !ok {
			t.Errorf("opcode %#02x: StdEncode(%s, %v) not found", op, e.Mnemonic, e.Mode)
			continue
		}
		if got != byte(op) {
			t.Errorf("opcode %#02x: StdEncode(%s, %v) = %#02x, want %#02x", op, e.Mnemonic, e.Mode, got, op)
		}
	}
}

func TestExtPrefixIsCOPSlot(t *testing.T) {
	if _, _, ok := StdDecode(ExtPrefix); ok {
		t.Errorf("opcode %#02x should have no standard-plane instruction", ExtPrefix)
	}
}

func TestLDAImmediate(t *testing.T) {
	op, ok := StdEncode("LDA", ModeImmediate)
	if !ok || op != 0xA9 {
		t.Fatalf("LDA immediate = %#02x, %v; want 0xA9, true", op, ok)
	}
}

func TestScenarioFModeByte(t *testing.T) {
	// LD R4, #$ABCD with a .W suffix, in 32-bit mode, encodes opcode 0x80
	// with mode byte built from the general bits7:6=size/bit5=target/
	// bits4:0=mode-index formula. Applying that formula to size=Size16
	// (word), target=true, idx=ALUIdxImmediate gives 0x78. This
	// implementation follows the formula consistently (see DESIGN.md).
	op, ok := ALUOpcode("LD")
	if !ok || op != 0x80 {
		t.Fatalf("ALUOpcode(LD) = %#02x, %v; want 0x80, true", op, ok)
	}
	modeByte := ALUModeByte(Size16, true, ALUIdxImmediate)
	if modeByte != 0x78 {
		t.Errorf("mode byte = %#02x, want 0x78 (size=1,target=1,idx=0x18)", modeByte)
	}
	size, target, idx := ALUDecodeModeByte(modeByte)
	if size != Size16 || !target || idx != ALUIdxImmediate {
		t.Errorf("decode mismatch: size=%v target=%v idx=%#02x", size, target, idx)
	}
}

func TestBranchPromotion(t *testing.T) {
	long, ok := LongBranchOf("BRA")
	if !ok || long != "BRL" {
		t.Fatalf("LongBranchOf(BRA) = %q, %v; want BRL, true", long, ok)
	}
	if _, ok := LongBranchOf("BNE"); ok {
		t.Errorf("BNE must have no long-branch promotion")
	}
}

func TestRegisterAliasRoundTrip(t *testing.T) {
	name, ok := RegisterName(0x10)
	if !ok || name != "R4" {
		t.Fatalf("RegisterName(0x10) = %q, %v; want R4, true", name, ok)
	}
	if _, ok := RegisterName(0x11); ok {
		t.Errorf("RegisterName(0x11) should fail: not 4-byte aligned")
	}
}

func TestExtTableDoesNotOverlapSpecialBytes(t *testing.T) {
	special := map[byte]bool{
		OpBarrelShifter: true,
		OpBitField:      true,
		OpExtTAT:        true,
		OpExtTTA:        true,
	}
	for op := range extTable {
		if special[byte(op)] {
			t.Errorf("extTable entry %#02x collides with a reserved second-byte discriminator", op)
		}
	}
}
