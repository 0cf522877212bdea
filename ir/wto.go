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

// Order computes a reverse-postorder traversal of the CFG from Entry,
// along with the set of loop-header blocks (the targets of back
// edges). The fixpoint iterator (analysis.Run) schedules its
// worklist in this order and widens only at loop headers, a
// weak-topological-order discipline. A block unreachable from Entry is
// omitted, the same way a Bottom entry state models unreachable code.
func (g *CFG) Order() (rpo []*BasicBlock, loopHeaders map[*BasicBlock]bool) {
	visited := map[*BasicBlock]bool{}
	onStack := map[*BasicBlock]bool{}
	loopHeaders = map[*BasicBlock]bool{}
	var postorder []*BasicBlock

	var visit func(b *BasicBlock)
	visit = func(b *BasicBlock) {
		visited[b] = true
		onStack[b] = true
		for _, e := range b.Succs {
			if onStack[e.Target] {
				loopHeaders[e.Target] = true
				continue
			}
			if !visited[e.Target] {
				visit(e.Target)
			}
		}
		onStack[b] = false
		postorder = append(postorder, b)
	}
	if g.Entry != nil {
		visit(g.Entry)
	}

	rpo = make([]*BasicBlock, len(postorder))
	for i, b := range postorder {
		rpo[len(postorder)-1-i] = b
	}
	for i, b := range rpo {
		b.index = i
	}
	return rpo, loopHeaders
}
