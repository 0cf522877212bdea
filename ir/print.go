// Copyright 2018 MPI-SWS and Valentin Wuestholz

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

package ir

import (
	"fmt"
	"strings"
)

// String renders the CFG back into the assembly form Parse reads, in
// block order, labelling every block and every edge target so a
// transformed program can be diffed textually against the original
// (used by the CLI and by the end-to-end scenario tests).
func (g *CFG) String() string {
	var b strings.Builder
	for _, blk := range g.Blocks {
		fmt.Fprintf(&b, "%s:\n", blk.Name)
		for i, insn := range blk.Instrs {
			isTerm := i == len(blk.Instrs)-1
			if isTerm && (insn.Op == OpGoto || insn.Op == OpIfZ || insn.Op == OpIfCmp || insn.Op == OpSwitch) {
				fmt.Fprintf(&b, "  %s\n", renderTerminator(insn, blk.Succs))
				continue
			}
			fmt.Fprintf(&b, "  %s\n", insn.String())
		}
	}
	return b.String()
}

func renderTerminator(insn Instruction, succs []Edge) string {
	targetOf := func(tag EdgeTag) string {
		for _, e := range succs {
			if e.Tag == tag {
				return e.Target.Name
			}
		}
		return "?"
	}
	switch insn.Op {
	case OpGoto:
		return fmt.Sprintf("goto %s", targetOf(Fallthrough))
	case OpIfZ:
		return fmt.Sprintf("if-%s %s, %s", insn.Cond, insn.A, targetOf(Branch))
	case OpIfCmp:
		return fmt.Sprintf("if-%s %s, %s, %s", insn.Cond, insn.A, insn.B, targetOf(Branch))
	case OpSwitch:
		parts := make([]string, 0, len(succs))
		for _, e := range succs {
			if e.Tag == Case {
				parts = append(parts, fmt.Sprintf("%d->%s", e.CaseValue, e.Target.Name))
			}
		}
		return fmt.Sprintf("switch %s %s", insn.A, strings.Join(parts, " "))
	default:
		return insn.String()
	}
}
