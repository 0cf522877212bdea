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

package analysis

import "github.com/practical-formal-methods/constprop/ir"

// RefineEdge narrows the state at the end of a block along one
// outgoing edge of a conditional terminator, using the comparison's
// semantics. taken is true for the Branch-tagged edge, false for the
// Fallthrough edge.
//
// Callers must apply the degeneracy rule themselves: if both
// successors of a conditional go to the same target block, refinement
// must not be applied. RefineEdge has no way to see the other edge's
// target and always refines.
func RefineEdge(s State, term ir.Instruction, taken bool) State {
	if s.IsBottom() {
		return s
	}
	switch term.Op {
	case ir.OpIfZ:
		return refineIfZ(s, term, taken)
	case ir.OpIfCmp:
		return refineIfCmp(s, term, taken)
	default:
		return s
	}
}

func refineIfZ(s State, term ir.Instruction, taken bool) State {
	a := s.Regs.Get(term.A)
	var constraint Sign
	switch term.Cond {
	case ir.EqZ:
		constraint = pick(taken, SignEqZ, SignNeZ)
	case ir.NeZ:
		constraint = pick(taken, SignNeZ, SignEqZ)
	case ir.LtZ:
		constraint = pick(taken, SignLtZ, SignGeZ)
	case ir.GtZ:
		constraint = pick(taken, SignGtZ, SignLeZ)
	case ir.LeZ:
		constraint = pick(taken, SignLeZ, SignGtZ)
	case ir.GeZ:
		constraint = pick(taken, SignGeZ, SignLtZ)
	default:
		return s
	}
	s.Regs = s.Regs.Set(term.A, a.Meet(FromInterval(constraint)))
	return s
}

func pick(taken bool, onTrue, onFalse Sign) Sign {
	if taken {
		return onTrue
	}
	return onFalse
}

// refineIfCmp implements the two-register comparisons. eq/ne meet
// both operands together on the edge where they are known equal; the
// ordered comparisons (lt/le/gt/ge) constrain each operand using the
// other's bound (if b has a known upper bound B, a is met with <=B;
// symmetrically b is met with >=a's lower bound), evaluated from the
// pre-refinement values so the two updates don't see each other's
// result. Each edge determines both the direction of the relation and
// whether it includes equality: the true edge of a non-strict
// comparison (le/ge) and the false edge of a strict one (lt/gt) must
// admit a == b, or a concrete pair like (0, 0) would be refined out of
// an environment it actually satisfies.
func refineIfCmp(s State, term ir.Instruction, taken bool) State {
	a := s.Regs.Get(term.A)
	b := s.Regs.Get(term.B)

	meetBoth := func() {
		m := a.Meet(b)
		s.Regs = s.Regs.Set(term.A, m)
		s.Regs = s.Regs.Set(term.B, m)
	}

	switch term.Cond {
	case ir.Eq:
		if taken {
			meetBoth()
		}
		return s
	case ir.Ne:
		if !taken {
			meetBoth()
		}
		return s
	}

	// lt/le/gt/ge: pick which relation holds on this edge, then
	// constrain a by b's bound and b by a's bound.
	var aLtB, orEqual bool
	switch term.Cond {
	case ir.Lt:
		aLtB, orEqual = taken, !taken
	case ir.Le:
		aLtB, orEqual = taken, taken
	case ir.Gt:
		aLtB, orEqual = !taken, !taken
	case ir.Ge:
		aLtB, orEqual = !taken, taken
	default:
		return s
	}

	if aLtB {
		// a < b (orEqual: a <= b)
		newA := a.Meet(leBound(b.MaxElement(), orEqual))
		newB := b.Meet(geBound(a.MinElement(), orEqual))
		s.Regs = s.Regs.Set(term.A, newA)
		s.Regs = s.Regs.Set(term.B, newB)
	} else {
		// a > b (orEqual: a >= b)
		newA := a.Meet(geBound(b.MinElement(), orEqual))
		newB := b.Meet(leBound(a.MaxElement(), orEqual))
		s.Regs = s.Regs.Set(term.A, newA)
		s.Regs = s.Regs.Set(term.B, newB)
	}
	return s
}

// leBound/geBound approximate "x <= bound"/"x >= bound" (or their
// strict forms) with the coarsest sign interval that contains every
// value satisfying the inequality, since Sign has no general numeric
// bound coordinate: it only tracks the relation to zero. leBound
// yields top once the (non-strict) bound is above zero, and geBound
// once it is below zero; see DESIGN.md.
func leBound(bound int64, orEqual bool) SignedConstantDomain {
	if !orEqual {
		bound--
	}
	switch {
	case bound < 0:
		return FromInterval(SignLtZ)
	case bound == 0:
		return FromInterval(SignLeZ)
	default:
		return DomainTop()
	}
}

func geBound(bound int64, orEqual bool) SignedConstantDomain {
	if !orEqual {
		bound++
	}
	switch {
	case bound > 0:
		return FromInterval(SignGtZ)
	case bound == 0:
		return FromInterval(SignGeZ)
	default:
		return DomainTop()
	}
}
