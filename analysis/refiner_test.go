package analysis

import (
	"testing"

	"github.com/practical-formal-methods/constprop/ir"
)

func stateWith(reg ir.Register, d SignedConstantDomain) State {
	s := TopState()
	s.Regs = s.Regs.Set(reg, d)
	return s
}

func TestRefineIfZEqZ(t *testing.T) {
	s := TopState()
	term := ir.Instruction{Op: ir.OpIfZ, Cond: ir.EqZ, A: 0}

	trueSide := RefineEdge(s, term, true)
	if v, ok := trueSide.Regs.Get(0).GetConstant(); !ok || v != 0 {
		t.Fatalf("taken eqz should pin v0 to 0, got %v", trueSide.Regs.Get(0))
	}

	falseSide := RefineEdge(s, term, false)
	if !falseSide.Regs.Get(0).Equals(FromInterval(SignNeZ)) {
		t.Fatalf("not-taken eqz should refine v0 to NEZ, got %v", falseSide.Regs.Get(0))
	}
}

func TestRefineIfZContradictionIsBottom(t *testing.T) {
	s := stateWith(0, FromValue(5))
	term := ir.Instruction{Op: ir.OpIfZ, Cond: ir.EqZ, A: 0}
	trueSide := RefineEdge(s, term, true)
	if !trueSide.IsBottom() {
		t.Fatalf("v0==5 can never take the eqz branch, expected bottom, got %v", trueSide)
	}
}

func TestRefineIfCmpEq(t *testing.T) {
	s := TopState()
	s.Regs = s.Regs.Set(0, FromValue(3))
	term := ir.Instruction{Op: ir.OpIfCmp, Cond: ir.Eq, A: 0, B: 1}
	refined := RefineEdge(s, term, true)
	if v, ok := refined.Regs.Get(1).GetConstant(); !ok || v != 3 {
		t.Fatalf("eq branch should propagate v0's constant onto v1, got %v", refined.Regs.Get(1))
	}
}

func TestRefineIfCmpLtInfersSign(t *testing.T) {
	// v0 < v1, v1 known to be 0: v0 must end up strictly negative.
	s := TopState()
	s.Regs = s.Regs.Set(1, FromValue(0))
	term := ir.Instruction{Op: ir.OpIfCmp, Cond: ir.Lt, A: 0, B: 1}
	refined := RefineEdge(s, term, true)
	if !refined.Regs.Get(0).Equals(FromInterval(SignLtZ)) {
		t.Fatalf("v0 < 0 should refine to LTZ, got %v", refined.Regs.Get(0))
	}
}

func TestRefineIfCmpGeDualOfLt(t *testing.T) {
	// v0 >= v1 not taken means v0 < v1; with v1 == 0, v0 must be LTZ.
	s := TopState()
	s.Regs = s.Regs.Set(1, FromValue(0))
	term := ir.Instruction{Op: ir.OpIfCmp, Cond: ir.Ge, A: 0, B: 1}
	refined := RefineEdge(s, term, false)
	if !refined.Regs.Get(0).Equals(FromInterval(SignLtZ)) {
		t.Fatalf("not-taken v0>=0 should refine v0 to LTZ, got %v", refined.Regs.Get(0))
	}
}

func TestRefineIfCmpGeTakenIncludesEquality(t *testing.T) {
	// v0 >= v1 taken, v1 known to be 0: v0 must admit 0, so it refines
	// to GEZ, not the strict GTZ that would exclude the (0, 0) pair.
	s := TopState()
	s.Regs = s.Regs.Set(1, FromValue(0))
	term := ir.Instruction{Op: ir.OpIfCmp, Cond: ir.Ge, A: 0, B: 1}
	refined := RefineEdge(s, term, true)
	if !refined.Regs.Get(0).Equals(FromInterval(SignGeZ)) {
		t.Fatalf("taken v0>=0 should refine v0 to GEZ (admitting 0), got %v", refined.Regs.Get(0))
	}
}

func TestRefineIfCmpLtNotTakenIncludesEquality(t *testing.T) {
	// v0 < v1 not taken means v0 >= v1; with v1 == 0, v0 must admit 0,
	// so it refines to GEZ, not the strict GTZ.
	s := TopState()
	s.Regs = s.Regs.Set(1, FromValue(0))
	term := ir.Instruction{Op: ir.OpIfCmp, Cond: ir.Lt, A: 0, B: 1}
	refined := RefineEdge(s, term, false)
	if !refined.Regs.Get(0).Equals(FromInterval(SignGeZ)) {
		t.Fatalf("not-taken v0<0 should refine v0 to GEZ (admitting 0), got %v", refined.Regs.Get(0))
	}
}

func TestRefineDegenerateEdgeUnaffectedByCaller(t *testing.T) {
	// RefineEdge itself doesn't know about the sibling edge; a caller
	// presenting a degenerate branch still gets a refined (possibly
	// wrong for that use) result back, by contract left to the caller
	// (fixpoint.go/transform.go apply the degeneracy check).
	s := TopState()
	term := ir.Instruction{Op: ir.OpIfZ, Cond: ir.EqZ, A: 0}
	refined := RefineEdge(s, term, true)
	if refined.IsBottom() {
		t.Fatalf("refining top with a satisfiable constraint should not be bottom")
	}
}

func TestRefineEdgeBottomInIsBottomOut(t *testing.T) {
	s := BottomState()
	term := ir.Instruction{Op: ir.OpIfZ, Cond: ir.EqZ, A: 0}
	if !RefineEdge(s, term, true).IsBottom() {
		t.Fatalf("refining bottom should stay bottom")
	}
}
