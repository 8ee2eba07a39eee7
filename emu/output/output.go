/*
	M65832 Assembler Toolchain - Output writers

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

// Package output assembles the section manager's finished buffers into
// three artifacts: a flat binary image, an Intel HEX file, and a
// plain-text symbol map.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rcornwell/m65832asm/emu/section"
	"github.com/rcornwell/m65832asm/emu/symtab"
	hexutil "github.com/rcornwell/m65832asm/util/hex"
)

// Extent is the [min, max) touched-address span across every populated
// section, the range the flat and Intel HEX writers actually emit.
func Extent(mgr *section.Manager) (min, max uint32, any bool) {
	for _, s := range mgr.All() {
		if s.Size() == 0 {
			continue
		}
		if !any || s.Origin < min {
			min = s.Origin
		}
		if !any || s.End() > max {
			max = s.End()
		}
		any = true
	}
	return
}

// byteAt returns the byte at addr across every section, or (FillByte,
// false) if addr falls in a gap no section covers.
func byteAt(mgr *section.Manager, addr uint32) (byte, bool) {
	for _, s := range mgr.All() {
		if s.Size() == 0 {
			continue
		}
		if addr >= s.Origin && addr < s.End() {
			return s.Bytes()[addr-s.Origin], true
		}
	}
	return section.FillByte, false
}

// WriteFlat writes the flat binary image: every byte from the lowest to the
// highest touched address, with FillByte (0xFF) standing in for any
// address no section ever wrote.
func WriteFlat(w io.Writer, mgr *section.Manager) error {
	min, max, any := Extent(mgr)
	if !any {
		return nil
	}
	buf := make([]byte, max-min)
	for i := range buf {
		b, _ := byteAt(mgr, min+uint32(i))
		buf[i] = b
	}
	_, err := w.Write(buf)
	return err
}

// hexRecordSize is the maximum number of data bytes per Intel HEX data
// record.
const hexRecordSize = 16

// checksum is the two's-complement of the sum of every byte in a record,
// the standard Intel HEX checksum.
func checksum(bytes ...byte) byte {
	var sum byte
	for _, b := range bytes {
		sum += b
	}
	return byte(-int8(sum))
}

func writeRecord(w io.Writer, count byte, addr uint16, recType byte, data []byte) error {
	var b strings.Builder
	b.WriteByte(':')
	hdr := []byte{count, byte(addr >> 8), byte(addr), recType}
	hdr = append(hdr, data...)
	hexutil.FormatBytes(&b, false, hdr)
	hexutil.FormatByte(&b, checksum(hdr...))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteHex writes mgr's touched span as an Intel HEX file: an extended
// linear address record whenever the current address crosses a 64KiB
// boundary (or the image starts above 0xFFFF), up to 16 data bytes per
// record, standard checksums, and the `:00000001FF` end-of-file record.
func WriteHex(w io.Writer, mgr *section.Manager) error {
	min, max, any := Extent(mgr)
	if !any {
		return writeRecord(w, 0, 0, 0x01, nil)
	}

	lastBank := uint16(0) // bank 0 needs no ELA record
	addr := min
	for addr < max {
		n := hexRecordSize
		if remaining := max - addr; uint32(n) > remaining {
			n = int(remaining)
		}
		data := make([]byte, n)
		for i := 0; i < n; i++ {
			data[i], _ = byteAt(mgr, addr+uint32(i))
		}
		bank := uint16(addr >> 16)
		if bank != lastBank {
			if err := writeRecord(w, 2, 0, 0x04, []byte{byte(bank >> 8), byte(bank)}); err != nil {
				return err
			}
			lastBank = bank
		}
		if err := writeRecord(w, byte(n), uint16(addr), 0x00, data); err != nil {
			return err
		}
		addr += uint32(n)
	}
	return writeRecord(w, 0, 0, 0x01, nil)
}

// WriteSymbolMap writes one line per section ("ADDR S NAME") and one line
// per defined symbol ("ADDR L NAME"), in that order, then sorted by address
// within each group.
func WriteSymbolMap(w io.Writer, mgr *section.Manager, syms *symtab.Table) error {
	sections := append([]*section.Section(nil), mgr.All()...)
	sort.Slice(sections, func(i, j int) bool { return sections[i].Origin < sections[j].Origin })
	for _, s := range sections {
		if s.Size() == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%08X S %s\n", s.Origin, s.Name); err != nil {
			return err
		}
	}

	all := syms.All()
	defined := make([]*symtab.Symbol, 0, len(all))
	for _, s := range all {
		if s.Defined {
			defined = append(defined, s)
		}
	}
	sort.Slice(defined, func(i, j int) bool { return defined[i].Value < defined[j].Value })
	for _, s := range defined {
		if _, err := fmt.Fprintf(w, "%08X L %s\n", s.Value, s.Name); err != nil {
			return err
		}
	}
	return nil
}
