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

package analysis

import "github.com/practical-formal-methods/constprop/ir"

// Apply walks every block of g from its fp.EntryState, replaying the
// instruction transformer, and rewrites the IR in place: a
// non-terminator whose destination settles on a singleton constant
// becomes a const-load, and a conditional terminator whose outcome is
// decided by the refiner becomes an unconditional jump (or is dropped
// entirely when the decided target is already the fall-through). fp
// must be the result of Run(g, ...) for this exact g; Apply is the
// only phase that mutates the CFG.
func Apply(fp *Fixpoint, g *ir.CFG, cfg Config) {
	next := make(map[*ir.BasicBlock]*ir.BasicBlock, len(g.Blocks))
	for i, b := range g.Blocks {
		if i+1 < len(g.Blocks) {
			next[b] = g.Blocks[i+1]
		}
	}
	for _, b := range g.Blocks {
		rewriteBlock(fp, b, next[b], cfg)
	}
}

func rewriteBlock(fp *Fixpoint, b *ir.BasicBlock, fallsTo *ir.BasicBlock, cfg Config) {
	state := fp.EntryState(b)
	rewritten := make([]ir.Instruction, 0, len(b.Instrs))

	for i, insn := range b.Instrs {
		last := i == len(b.Instrs)-1
		if last && (insn.Op == ir.OpIfZ || insn.Op == ir.OpIfCmp) {
			if target, ok := decideBranch(state, insn, b.Succs); ok {
				dropEdges(b, target)
				if target != fallsTo {
					rewritten = append(rewritten, ir.Goto())
				}
				// target == fallsTo: the jump is now a pure no-op,
				// nothing to emit.
				break
			}
			rewritten = append(rewritten, insn)
			break
		}

		after := Step(state, insn, cfg)
		if dst, ok := insn.Defines(); ok {
			if v, isConst := after.Regs.Get(dst).GetConstant(); isConst && !insn.IsConstLoad(v) {
				insn = ir.ConstLoad(dst, v)
			}
		}
		rewritten = append(rewritten, insn)
		state = after
	}

	b.Instrs = rewritten
}

// decideBranch reports the single successor a conditional always
// reaches under state, or ok=false when either edge is still
// possible. The degenerate case (both edges already share a target)
// is handled by the explicit trueTarget == falseTarget check below,
// since RefineEdge itself has no way to see the sibling edge's
// target.
func decideBranch(state State, term ir.Instruction, succs []ir.Edge) (*ir.BasicBlock, bool) {
	if len(succs) != 2 {
		return nil, false
	}
	var trueTarget, falseTarget *ir.BasicBlock
	for _, e := range succs {
		if e.Tag == ir.Branch {
			trueTarget = e.Target
		} else {
			falseTarget = e.Target
		}
	}
	if trueTarget == falseTarget {
		return nil, false
	}

	trueState := RefineEdge(state, term, true)
	falseState := RefineEdge(state, term, false)
	switch {
	case trueState.IsBottom() && !falseState.IsBottom():
		return falseTarget, true
	case falseState.IsBottom() && !trueState.IsBottom():
		return trueTarget, true
	default:
		return nil, false
	}
}

// dropEdges collapses b's outgoing edges to the single edge reaching
// keep, unlinking b from every other successor's predecessor list.
func dropEdges(b *ir.BasicBlock, keep *ir.BasicBlock) {
	for _, e := range b.Succs {
		if e.Target != keep {
			removePred(e.Target, b)
		}
	}
	b.Succs = []ir.Edge{{Target: keep, Tag: ir.Fallthrough}}
}

func removePred(b, pred *ir.BasicBlock) {
	out := b.Preds[:0]
	for _, p := range b.Preds {
		if p != pred {
			out = append(out, p)
		}
	}
	b.Preds = out
}
