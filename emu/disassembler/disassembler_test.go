/*
	M65832 Assembler Toolchain - Disassembler tests
*/
package disassembler

import (
	"strings"
	"testing"

	"github.com/rcornwell/m65832asm/emu/opcodemap"
)

func TestRegisterAliasOperand(t *testing.T) {
	// LDA R4 in 32-bit mode disassembles from A5 10.
	d := &Decoder{M: 32, X: 32}
	inst, err := d.Decode([]byte{0xA5, 0x10}, 0x1000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Length != 2 {
		t.Errorf("length = %d, want 2", inst.Length)
	}
	if got := strings.TrimSpace(inst.Text); got != "LDA R4" {
		t.Errorf("text = %q, want %q", got, "LDA R4")
	}
}

func TestShortBranchTarget(t *testing.T) {
	// D0 FD is BNE -3: with BNE at $2001 the target is $2001+2-3 = $2000,
	// the byte just before the branch (a NOP, EA, in a real stream).
	d := NewDecoder()
	inst, err := d.Decode([]byte{0xD0, 0xFD}, 0x2001)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !inst.HasTarget {
		t.Fatalf("branch instruction must report a target")
	}
	if inst.Target != 0x2000 {
		t.Errorf("target = %#x, want 0x2000", inst.Target)
	}
}

func TestExtALURoundTrip(t *testing.T) {
	// LD R4, #$ABCD with a .W suffix, target=1, addressing-mode-index=
	// Immediate. The mode byte is built from the formula (see opcodemap's
	// TestScenarioFModeByte).
	modeByte := opcodemap.ALUModeByte(opcodemap.Size16, true, opcodemap.ALUIdxImmediate)
	data := []byte{opcodemap.ExtPrefix, 0x80, modeByte, 0x10, 0xCD, 0xAB}

	d := &Decoder{M: 32, X: 32}
	inst, err := d.Decode(data, 0x3000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Length != 6 {
		t.Errorf("length = %d, want 6", inst.Length)
	}
	want := "LD.W  R4,#$ABCD"
	if got := strings.Join(strings.Fields(inst.Text), " "); got != strings.Join(strings.Fields(want), " ") {
		t.Errorf("text = %q, want fields matching %q", inst.Text, want)
	}
}

func TestWAIandSTPin32BitMode(t *testing.T) {
	d := &Decoder{M: 32, X: 32}
	inst, err := d.Decode([]byte{0x42, 0xCB}, 0)
	if err != nil || inst.Text != "WAI" || inst.Length != 2 {
		t.Fatalf("WAI decode = %+v, %v", inst, err)
	}
	inst, err = d.Decode([]byte{0x42, 0xDB}, 0)
	if err != nil || inst.Text != "STP" || inst.Length != 2 {
		t.Fatalf("STP decode = %+v, %v", inst, err)
	}
	inst, err = d.Decode([]byte{0x42, 0x00}, 0)
	if err != nil || inst.Length != 1 {
		t.Fatalf("bare 0x42 in 32-bit mode = %+v, %v", inst, err)
	}
}

func TestWDMIn16BitMode(t *testing.T) {
	// Outside 32-bit mode, 0x42 is the ordinary WDM immediate opcode.
	d := NewDecoder()
	inst, err := d.Decode([]byte{0x42, 0x07}, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Length != 2 || !strings.HasPrefix(inst.Text, "WDM") {
		t.Errorf("got %+v, want a 2-byte WDM instruction", inst)
	}
}

func TestSEPUpdatesDecoderStatePersistently(t *testing.T) {
	d := NewDecoder()
	if d.M != 16 || d.X != 16 {
		t.Fatalf("decoder defaults = M=%d X=%d, want 16, 16", d.M, d.X)
	}
	// SEP #$30 clears both M (bit5) and X (bit4) to 8-bit.
	if _, err := d.Decode([]byte{0xE2, 0x30}, 0); err != nil {
		t.Fatalf("Decode SEP: %v", err)
	}
	if d.M != 8 || d.X != 8 {
		t.Fatalf("after SEP #$30: M=%d X=%d, want 8, 8", d.M, d.X)
	}
	// A subsequent LDA immediate must now take only one operand byte.
	inst, err := d.Decode([]byte{0xA9, 0x99}, 0)
	if err != nil {
		t.Fatalf("Decode LDA: %v", err)
	}
	if inst.Length != 2 {
		t.Errorf("LDA #imm length = %d, want 2 after SEP narrowed M to 8-bit", inst.Length)
	}
}

func TestBarrelShifterDecode(t *testing.T) {
	data := []byte{
		opcodemap.ExtPrefix, opcodemap.OpBarrelShifter,
		opcodemap.EncodeShiftByte(opcodemap.ShiftROL, 5),
		0x10, 0x14,
	}
	d := NewDecoder()
	inst, err := d.Decode(data, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Length != 5 {
		t.Errorf("length = %d, want 5", inst.Length)
	}
	got := strings.Join(strings.Fields(inst.Text), " ")
	want := "ROL R4,R5,#$05"
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestBitFieldDecode(t *testing.T) {
	data := []byte{
		opcodemap.ExtPrefix, opcodemap.OpBitField,
		byte(opcodemap.BitFieldCLZ), 0x08, 0x0C,
	}
	d := NewDecoder()
	inst, err := d.Decode(data, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := strings.Join(strings.Fields(inst.Text), " ")
	if got != "CLZ R2,R3" {
		t.Errorf("text = %q, want %q", got, "CLZ R2,R3")
	}
}

func TestFPUTwoRegDecode(t *testing.T) {
	op, ok := opcodemap.FPUEncode("FADD.S", opcodemap.FPUTwoReg)
	if !ok {
		t.Fatal("FPUEncode(FADD.S, FPUTwoReg) not found")
	}
	data := []byte{opcodemap.ExtPrefix, op, 0x31}
	d := NewDecoder()
	inst, err := d.Decode(data, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := strings.Join(strings.Fields(inst.Text), " ")
	if got != "FADD.S F3,F1" {
		t.Errorf("text = %q, want %q", got, "FADD.S F3,F1")
	}
}

func TestFPUMemIndirectDecode(t *testing.T) {
	op, ok := opcodemap.FPUEncode("LDF", opcodemap.FPUMemInd)
	if !ok {
		t.Fatal("FPUEncode(LDF, FPUMemInd) not found")
	}
	data := []byte{opcodemap.ExtPrefix, op, 0x25}
	d := NewDecoder()
	inst, err := d.Decode(data, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := strings.Join(strings.Fields(inst.Text), " ")
	if got != "LDF F2,(R5)" {
		t.Errorf("text = %q, want %q", got, "LDF F2,(R5)")
	}
}

func TestExtDirectQuad32Decode(t *testing.T) {
	op, ok := opcodemap.ExtEncode("SVBR", opcodemap.ExtQuad32)
	if !ok {
		t.Fatal("ExtEncode(SVBR, ExtQuad32) not found")
	}
	data := []byte{opcodemap.ExtPrefix, op, 0x78, 0x56, 0x34, 0x12}
	d := NewDecoder()
	inst, err := d.Decode(data, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Length != 6 {
		t.Errorf("length = %d, want 6", inst.Length)
	}
	got := strings.Join(strings.Fields(inst.Text), " ")
	if got != "SVBR $12345678" {
		t.Errorf("text = %q, want %q", got, "SVBR $12345678")
	}
}

func TestAbsoluteRequiresBPrefixIn32BitMode(t *testing.T) {
	d := &Decoder{M: 32, X: 32}
	// LDA abs, 0xAD.
	inst, err := d.Decode([]byte{0xAD, 0x00, 0x02}, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := strings.Join(strings.Fields(inst.Text), " ")
	if got != "LDA B+$0200" {
		t.Errorf("text = %q, want %q (32-bit mode requires the B+ marker to round-trip)", got, "LDA B+$0200")
	}
}

func TestUnknownExtendedOpcodeErrors(t *testing.T) {
	d := NewDecoder()
	if _, err := d.Decode([]byte{opcodemap.ExtPrefix, 0xFF}, 0); err == nil {
		t.Errorf("expected an error for an unassigned extended opcode")
	}
}
