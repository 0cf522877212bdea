package analysis

import "testing"

func TestConstJoinIdentityAndCollapse(t *testing.T) {
	bot := ConstBottomVal()
	top := ConstTopVal()
	five := ConstFromValue(5)
	six := ConstFromValue(6)

	if !bot.Join(five).Equals(five) {
		t.Errorf("bottom join 5 should be 5")
	}
	if !five.Join(five).Equals(five) {
		t.Errorf("5 join 5 should be 5")
	}
	if !five.Join(six).Equals(top) {
		t.Errorf("5 join 6 should be top")
	}
	if !five.Join(top).Equals(top) {
		t.Errorf("5 join top should be top")
	}
}

func TestConstMeetIdentityAndCollapse(t *testing.T) {
	bot := ConstBottomVal()
	top := ConstTopVal()
	five := ConstFromValue(5)
	six := ConstFromValue(6)

	if !top.Meet(five).Equals(five) {
		t.Errorf("top meet 5 should be 5")
	}
	if !five.Meet(six).Equals(bot) {
		t.Errorf("5 meet 6 should be bottom")
	}
	if !five.Meet(bot).Equals(bot) {
		t.Errorf("5 meet bottom should be bottom")
	}
}

func TestConstLeq(t *testing.T) {
	five := ConstFromValue(5)
	if !ConstBottomVal().Leq(five) {
		t.Errorf("bottom <= 5 should hold")
	}
	if !five.Leq(ConstTopVal()) {
		t.Errorf("5 <= top should hold")
	}
	if five.Leq(ConstFromValue(6)) {
		t.Errorf("5 <= 6 should not hold (incomparable)")
	}
}

func TestConstGetConstant(t *testing.T) {
	if _, ok := ConstTopVal().GetConstant(); ok {
		t.Errorf("top should have no constant")
	}
	if _, ok := ConstBottomVal().GetConstant(); ok {
		t.Errorf("bottom should have no constant")
	}
	if v, ok := ConstFromValue(42).GetConstant(); !ok || v != 42 {
		t.Errorf("expected (42, true), got (%d, %v)", v, ok)
	}
}
