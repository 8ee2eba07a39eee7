/*
	M65832 Assembler Toolchain - Assembler driver tests
*/
package assembler

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.s")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestScenarioA_M8NarrowsImmediate(t *testing.T) {
	// .M8 then LDA #$42 assembles to A9 42, not the default 32-bit-mode
	// 5-byte form.
	path := writeSource(t, ".M8\nLDA #$42\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	got := a.Sections.ByIndex(a.Sections.Index("TEXT")).Bytes()
	want := []byte{0xA9, 0x42}
	if !bytes.Equal(got, want) {
		t.Errorf("TEXT bytes = % X, want % X", got, want)
	}
}

func TestScenarioB_DefaultModeIs32BitImmediate(t *testing.T) {
	// With no width directive, LDA #$12345678 assembles to the full 5-byte
	// form (opcode plus a 4-byte immediate).
	path := writeSource(t, "LDA #$12345678\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	got := a.Sections.ByIndex(a.Sections.Index("TEXT")).Bytes()
	want := []byte{0xA9, 0x78, 0x56, 0x34, 0x12}
	if !bytes.Equal(got, want) {
		t.Errorf("TEXT bytes = % X, want % X", got, want)
	}
}

func TestScenarioC_RegisterAliasEncodesSameAsDirectPage(t *testing.T) {
	// LDA R4 encodes identically to the direct-page form it aliases
	// (R4 == dp $10, under the 4-byte-aligned register aliasing).
	path := writeSource(t, "LDA R4\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	got := a.Sections.ByIndex(a.Sections.Index("TEXT")).Bytes()
	want := []byte{0xA5, 0x10}
	if !bytes.Equal(got, want) {
		t.Errorf("TEXT bytes = % X, want % X", got, want)
	}
}

func TestScenarioD_ShortBranchBackwards(t *testing.T) {
	// A label-defined backward branch resolves to the short (2-byte)
	// relative form: NOP; BNE back to the NOP -> EA D0 FD.
	path := writeSource(t, "loop:\nNOP\nBNE loop\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	got := a.Sections.ByIndex(a.Sections.Index("TEXT")).Bytes()
	want := []byte{0xEA, 0xD0, 0xFD}
	if !bytes.Equal(got, want) {
		t.Errorf("TEXT bytes = % X, want % X", got, want)
	}
}

func TestScenarioE_SectionLinkingWithNoExplicitOrg(t *testing.T) {
	// TEXT starts at $1000 and is 4 bytes (one .BYTE of four values), so DATA (with
	// no .ORG of its own) links immediately after, at $1004.
	path := writeSource(t, ".ORG $1000\n.TEXT\n.BYTE 1,2,3,4\n.DATA\n.BYTE 5,6\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	text := a.Sections.ByIndex(a.Sections.Index("TEXT"))
	data := a.Sections.ByIndex(a.Sections.Index("DATA"))
	if text.Origin != 0x1000 {
		t.Errorf("TEXT.Origin = %#x, want 0x1000", text.Origin)
	}
	if data.Origin != 0x1004 {
		t.Errorf("DATA.Origin = %#x, want 0x1004 (linked immediately after TEXT)", data.Origin)
	}
	if !bytes.Equal(data.Bytes(), []byte{5, 6}) {
		t.Errorf("DATA bytes = % X, want % X", data.Bytes(), []byte{5, 6})
	}
}

func TestWDMRejectedIn32BitMode(t *testing.T) {
	path := writeSource(t, "WDM #$07\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if !a.Diags.HasErrors() {
		t.Fatalf("expected a diagnostic for WDM in the default 32-bit mode")
	}
}

func TestWDMAllowedIn16BitMode(t *testing.T) {
	path := writeSource(t, ".M16\n.X16\nWDM #$07\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	got := a.Sections.ByIndex(a.Sections.Index("TEXT")).Bytes()
	want := []byte{0x42, 0x07}
	if !bytes.Equal(got, want) {
		t.Errorf("TEXT bytes = % X, want % X", got, want)
	}
}

func TestForwardBranchSizeStableAcrossPasses(t *testing.T) {
	// BRA targets a label defined 6 bytes ahead, well inside short-branch
	// range once resolved. In pass 1 the label is still undefined, so the
	// fix must commit to the short 2-byte form rather than letting the
	// placeholder value of 0 compute an out-of-range offset and wrongly
	// promote to BRL.
	path := writeSource(t, ".ORG $100\nBRA label\nNOP\nNOP\nNOP\nNOP\nlabel:\nNOP\n")

	pass1 := New(nil)
	pass1.pass = 1
	pass1.M, pass1.X = 32, 32
	if err := pass1.runPass(path); err != nil {
		t.Fatalf("pass1 runPass: %v", err)
	}
	pass1Size := pass1.Sections.ByIndex(pass1.Sections.Index("TEXT")).Size()

	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	text := a.Sections.ByIndex(a.Sections.Index("TEXT"))
	if text.Size() != pass1Size {
		t.Errorf("pass2 TEXT size = %d, want pass1-predicted size %d", text.Size(), pass1Size)
	}
	want := []byte{0x80, 0x04, 0xEA, 0xEA, 0xEA, 0xEA, 0xEA}
	if !bytes.Equal(text.Bytes(), want) {
		t.Errorf("TEXT bytes = % X, want % X", text.Bytes(), want)
	}
}

func TestForwardOperandWidthStableAcrossPasses(t *testing.T) {
	// label resolves to $103, above the direct-page range. In pass 1 it is
	// still undefined, so the fix must commit to the absolute (3-byte) form
	// rather than letting the placeholder value of 0 pick direct page, which
	// pass 2 would then widen once the real address is known.
	path := writeSource(t, ".ORG $100\n.M16\n.X16\nLDA label\nlabel:\nNOP\n")

	pass1 := New(nil)
	pass1.pass = 1
	pass1.M, pass1.X = 32, 32
	if err := pass1.runPass(path); err != nil {
		t.Fatalf("pass1 runPass: %v", err)
	}
	pass1Size := pass1.Sections.ByIndex(pass1.Sections.Index("TEXT")).Size()

	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags)
	}
	text := a.Sections.ByIndex(a.Sections.Index("TEXT"))
	if text.Size() != pass1Size {
		t.Errorf("pass2 TEXT size = %d, want pass1-predicted size %d", text.Size(), pass1Size)
	}
	want := []byte{0xAD, 0x03, 0x01, 0xEA}
	if !bytes.Equal(text.Bytes(), want) {
		t.Errorf("TEXT bytes = % X, want % X", text.Bytes(), want)
	}
}

func TestUndefinedSymbolIsReportedAfterPass2(t *testing.T) {
	path := writeSource(t, "LDA undefined_label\n")
	a, err := AssembleFile(path, nil, false)
	if err != nil {
		t.Fatalf("AssembleFile: %v", err)
	}
	if !a.Diags.HasErrors() {
		t.Fatalf("expected an undefined-symbol diagnostic")
	}
}
