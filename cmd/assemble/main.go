/*
	M65832 Assembler Toolchain - Assembler command-line front end

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
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/m65832asm/emu/assembler"
	"github.com/rcornwell/m65832asm/emu/output"
	"github.com/rcornwell/m65832asm/util/logger"
)

func main() {
	optOut := getopt.StringLong("output", 'o', "a.out", "Output file")
	optMap := getopt.StringLong("map", 'm', "", "Symbol map output file")
	optInclude := getopt.ListLong("include", 'I', "Append an include search path")
	optHex := getopt.BoolLong("hex", 'h', "Emit Intel HEX instead of flat binary")
	optList := getopt.BoolLong("list", 'l', "List symbols to stdout")
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose diagnostics")
	getopt.Parse()

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(1)
	}
	input := args[0]

	if len(*optInclude) > 8 {
		slog.Error("too many -I include paths (at most 8)")
		os.Exit(1)
	}

	programLevel := new(slog.LevelVar)
	if *optVerbose {
		programLevel.Set(slog.LevelDebug)
	} else {
		programLevel.Set(slog.LevelWarn)
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, optVerbose)))

	a, err := assembler.AssembleFile(input, *optInclude, *optVerbose)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	a.Diags.Fprint(os.Stderr)
	if a.Diags.HasErrors() {
		os.Exit(1)
	}

	out, err := os.Create(*optOut)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	defer out.Close()

	if *optHex {
		err = output.WriteHex(out, a.Sections)
	} else {
		err = output.WriteFlat(out, a.Sections)
	}
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	if *optMap != "" {
		mapFile, err := os.Create(*optMap)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		defer mapFile.Close()
		if err := output.WriteSymbolMap(mapFile, a.Sections, a.Syms); err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}

	if *optList {
		if err := output.WriteSymbolMap(os.Stdout, a.Sections, a.Syms); err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}
}
