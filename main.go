// Copyright 2018 MPI-SWS, Valentin Wuestholz, and ConsenSys AG

// This file is part of constprop.
//
// constprop is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// constprop is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with constprop.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/practical-formal-methods/constprop/analysis"
	"github.com/practical-formal-methods/constprop/ir"
)

func main() {
	foldArithmetic := flag.Bool("fold-arithmetic", false, "fold literal arithmetic whose operands are known constants")
	trackStaticFields := flag.Bool("track-static-fields", false, "maintain the parallel static-field environment")
	quiet := flag.Bool("quiet", false, "print only the rewritten program, not the before/after diff")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: constprop [flags] <program.ir> [more.ir ...]")
		os.Exit(2)
	}

	cfg := analysis.Config{
		FoldArithmetic:    *foldArithmetic,
		TrackStaticFields: *trackStaticFields,
	}

	status := 0
	for _, path := range flag.Args() {
		if err := runFile(path, cfg, *quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			status = 1
		}
	}
	os.Exit(status)
}

// runFile parses one program, runs the fixpoint iterator and the
// rewrite pass over it, and prints the result. A *ir.MalformedIRError
// from Parse or a *analysis.NonConvergenceError from Run both abort
// with the CFG left unmodified; runFile reports them the same way as
// any other error rather than distinguishing a recoverable case, since
// neither is recoverable at this layer.
func runFile(path string, cfg analysis.Config, quiet bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g, err := ir.Parse(name, string(src))
	if err != nil {
		return fmt.Errorf("parsing program: %w", err)
	}
	before := g.String()

	fp, err := analysis.Run(g, analysis.TopState(), cfg)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	analysis.Apply(fp, g, cfg)
	after := g.String()

	if quiet {
		fmt.Print(after)
		return nil
	}

	fmt.Printf("=== %s (digest %s) ===\n", name, fp.Digest)
	fmt.Println("--- before ---")
	fmt.Print(before)
	fmt.Println("--- after ---")
	fmt.Print(after)
	return nil
}
