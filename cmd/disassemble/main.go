/*
	M65832 Assembler Toolchain - Disassembler command-line front end

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
package main

import (
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/m65832asm/emu/disassembler"
)

func main() {
	optOrigin := getopt.StringLong("origin", 'o', "0", "Program-counter value assigned to the first byte")
	optLength := getopt.IntLong("length", 'l', 0, "Number of bytes to decode (default: rest of file)")
	optOffset := getopt.IntLong("skip", 's', 0, "Offset within the file to start decoding")
	optRaw := getopt.BoolLong("raw", 'x', "Include raw hex bytes in the listing")
	optNoAddr := getopt.BoolLong("no-address", 'n', "Suppress the address column")
	optM8 := getopt.BoolLong("m8", 0, "Start with an 8-bit accumulator")
	optM16 := getopt.BoolLong("m16", 0, "Start with a 16-bit accumulator")
	optM32 := getopt.BoolLong("m32", 0, "Start with a 32-bit accumulator")
	optX8 := getopt.BoolLong("x8", 0, "Start with 8-bit index registers")
	optX16 := getopt.BoolLong("x16", 0, "Start with 16-bit index registers")
	optX32 := getopt.BoolLong("x32", 0, "Start with 32-bit index registers")
	getopt.Parse()

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(1)
	}

	origin, err := parseOrigin(*optOrigin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *optOffset < 0 || *optOffset > len(data) {
		fmt.Fprintln(os.Stderr, "error: -s offset out of range")
		os.Exit(1)
	}
	data = data[*optOffset:]
	if *optLength > 0 && *optLength < len(data) {
		data = data[:*optLength]
	}

	d := disassembler.NewDecoder()
	switch {
	case *optM8:
		d.M = 8
	case *optM16:
		d.M = 16
	case *optM32:
		d.M = 32
	}
	switch {
	case *optX8:
		d.X = 8
	case *optX16:
		d.X = 16
	case *optX32:
		d.X = 32
	}

	pc := origin
	hadError := false
	for len(data) > 0 {
		inst, err := d.Decode(data, pc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: address %#08X: %v\n", pc, err)
			hadError = true
			break
		}
		printLine(pc, data[:inst.Length], inst.Text, *optNoAddr, *optRaw)
		data = data[inst.Length:]
		pc += uint32(inst.Length)
	}

	if hadError {
		os.Exit(1)
	}
}

func printLine(pc uint32, raw []byte, text string, noAddr, showRaw bool) {
	var line string
	if !noAddr {
		line += fmt.Sprintf("%08X  ", pc)
	}
	if showRaw {
		hexCol := ""
		for _, b := range raw {
			hexCol += fmt.Sprintf("%02X ", b)
		}
		line += fmt.Sprintf("%-24s", hexCol)
	}
	line += text
	fmt.Println(line)
}

func parseOrigin(s string) (uint32, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err != nil {
		_, err = fmt.Sscanf(s, "$%x", &v)
	}
	if err != nil {
		_, err = fmt.Sscanf(s, "%d", &v)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid origin %q", s)
	}
	return uint32(v), nil
}
