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

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/practical-formal-methods/constprop/ir"
)

// Fixpoint is the result of running the monotone dataflow iterator to
// completion: the abstract state at the entry and exit of every block
// reachable from the CFG's entry.
type Fixpoint struct {
	Digest common.Hash // identifies the CFG this result was computed for

	entry map[*ir.BasicBlock]State
	exit  map[*ir.BasicBlock]State
}

// EntryState returns the state on entry to b, or BottomState for a
// block Run never reached (unreachable code).
func (f *Fixpoint) EntryState(b *ir.BasicBlock) State {
	if s, ok := f.entry[b]; ok {
		return s
	}
	return BottomState()
}

// ExitState returns the state after b's last instruction.
func (f *Fixpoint) ExitState(b *ir.BasicBlock) State {
	if s, ok := f.exit[b]; ok {
		return s
	}
	return BottomState()
}

// Run iterates the instruction transformer and the edge refiner to a
// fixpoint over g, starting from entryState at g.Entry, widening at
// loop headers. It returns a *NonConvergenceError if the iteration cap
// (analysis/utils.go's maxFixpointIterations) is exceeded, a safeguard
// against a bug in widening rather than a limit well-formed input
// should ever reach.
//
// The result carries Digest, a Keccak256 hash of the CFG's printed
// instruction stream, derived the way a per-method analysis cache
// derives a codeHash from the underlying bytecode; nothing in this
// package caches results by it.
func Run(g *ir.CFG, entryState State, cfg Config) (*Fixpoint, error) {
	rpo, loopHeaders := g.Order()

	entry := make(map[*ir.BasicBlock]State, len(rpo))
	for _, b := range rpo {
		entry[b] = BottomState()
	}
	if g.Entry != nil {
		entry[g.Entry] = entryState
	}

	dirty := make(map[*ir.BasicBlock]bool, len(rpo))
	queue := make([]*ir.BasicBlock, 0, len(rpo))
	for _, b := range rpo {
		dirty[b] = true
		queue = append(queue, b)
	}

	iterations := 0
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if !dirty[b] {
			continue
		}
		dirty[b] = false

		iterations++
		if iterations > maxFixpointIterations {
			return nil, &NonConvergenceError{Method: g.Name, Iterations: iterations}
		}

		incoming := BottomState()
		if b == g.Entry {
			incoming = incoming.Join(entryState)
		}
		for _, p := range b.Preds {
			incoming = incoming.Join(refinedExit(p, entry[p], b, cfg))
		}

		old := entry[b]
		next := incoming
		if loopHeaders[b] {
			next = old.Widen(incoming)
		}
		if next.Equals(old) {
			continue
		}
		entry[b] = next
		for _, e := range b.Succs {
			if !dirty[e.Target] {
				dirty[e.Target] = true
				queue = append(queue, e.Target)
			}
		}
	}

	exit := make(map[*ir.BasicBlock]State, len(rpo))
	for _, b := range rpo {
		exit[b] = replay(entry[b], b, cfg)
	}

	return &Fixpoint{
		Digest: crypto.Keccak256Hash([]byte(g.String())),
		entry:  entry,
		exit:   exit,
	}, nil
}

// replay runs the instruction transformer across b's instructions in
// order, starting from s.
func replay(s State, b *ir.BasicBlock, cfg Config) State {
	for _, insn := range b.Instrs {
		s = Step(s, insn, cfg)
	}
	return s
}

// refinedExit computes the state p contributes to target: p's exit
// state, narrowed by RefineEdge when p ends in a conditional and
// target is reached via one specific edge. The degeneracy rule (both
// of a conditional's successors reaching the same block skips
// refinement entirely) is applied here, since only the caller
// iterating a block's distinct predecessor edges can see both targets
// at once; RefineEdge itself always refines.
func refinedExit(p *ir.BasicBlock, predEntry State, target *ir.BasicBlock, cfg Config) State {
	exitState := replay(predEntry, p, cfg)

	term, ok := p.Terminator()
	if !ok {
		return exitState
	}
	if term.Op != ir.OpIfZ && term.Op != ir.OpIfCmp {
		return exitState
	}
	if len(p.Succs) != 2 || p.Succs[0].Target == p.Succs[1].Target {
		return exitState
	}

	for _, e := range p.Succs {
		if e.Target == target {
			return RefineEdge(exitState, term, e.Tag == ir.Branch)
		}
	}
	return exitState
}
