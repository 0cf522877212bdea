package analysis

import (
	"testing"

	"github.com/practical-formal-methods/constprop/ir"
)

func TestEnvironmentAbsentKeyIsTop(t *testing.T) {
	env := TopEnvironment[ir.Register]()
	if !env.Get(ir.Register(0)).IsTop() {
		t.Fatalf("absent key should read as top")
	}
}

func TestEnvironmentSetTopElides(t *testing.T) {
	env := TopEnvironment[ir.Register]().Set(ir.Register(0), FromValue(5))
	env = env.Set(ir.Register(0), DomainTop())
	if !env.Equals(TopEnvironment[ir.Register]()) {
		t.Fatalf("storing top should elide the binding")
	}
}

func TestEnvironmentSetBottomPoisons(t *testing.T) {
	env := TopEnvironment[ir.Register]().Set(ir.Register(0), FromValue(5))
	env = env.Set(ir.Register(1), DomainBottom())
	if !env.IsBottom() {
		t.Fatalf("storing bottom anywhere should poison the whole environment")
	}
}

func TestEnvironmentJoin(t *testing.T) {
	a := TopEnvironment[ir.Register]().Set(ir.Register(0), FromValue(1))
	b := TopEnvironment[ir.Register]().Set(ir.Register(0), FromValue(2))
	joined := a.Join(b)
	if !joined.Get(ir.Register(0)).Equals(FromInterval(SignGtZ)) {
		t.Fatalf("join of 1 and 2 should be GTZ, got %v", joined.Get(ir.Register(0)))
	}
}

func TestEnvironmentJoinWithBottomIsIdentity(t *testing.T) {
	a := TopEnvironment[ir.Register]().Set(ir.Register(0), FromValue(1))
	if !a.Join(BottomEnvironment[ir.Register]()).Equals(a) {
		t.Fatalf("join with bottom should be identity")
	}
}

func TestEnvironmentCloneIsIndependent(t *testing.T) {
	a := TopEnvironment[ir.Register]().Set(ir.Register(0), FromValue(1))
	b := a.Set(ir.Register(0), FromValue(2))
	if !a.Get(ir.Register(0)).Equals(FromValue(1)) {
		t.Fatalf("mutating the derived environment must not affect the original")
	}
	if !b.Get(ir.Register(0)).Equals(FromValue(2)) {
		t.Fatalf("derived environment should see the new binding")
	}
}

func TestEnvironmentEqualsModuloTopElision(t *testing.T) {
	a := TopEnvironment[ir.Register]()
	b := TopEnvironment[ir.Register]().Set(ir.Register(0), DomainTop())
	if !a.Equals(b) {
		t.Fatalf("an explicit top binding should equal an absent one")
	}
}

func TestEnvironmentFieldIDKeys(t *testing.T) {
	env := TopEnvironment[ir.FieldID]().Set(ir.FieldID("Foo.bar"), FromValue(3))
	if v, ok := env.Get(ir.FieldID("Foo.bar")).GetConstant(); !ok || v != 3 {
		t.Fatalf("static-field environment should track FieldID keys the same way")
	}
}
