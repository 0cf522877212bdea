package analysis

import "testing"

var allSigns = []Sign{SignBottom, SignEqZ, SignLtZ, SignGtZ, SignLeZ, SignGeZ, SignNeZ, SignAll}

func TestSignJoinMeetCommutative(t *testing.T) {
	for _, a := range allSigns {
		for _, b := range allSigns {
			if SignJoin(a, b) != SignJoin(b, a) {
				t.Errorf("join(%v,%v) not commutative", a, b)
			}
			if SignMeet(a, b) != SignMeet(b, a) {
				t.Errorf("meet(%v,%v) not commutative", a, b)
			}
		}
	}
}

func TestSignBottomTopIdentity(t *testing.T) {
	for _, a := range allSigns {
		if SignJoin(SignBottom, a) != a {
			t.Errorf("bottom join %v = %v, want %v", a, SignJoin(SignBottom, a), a)
		}
		if SignMeet(SignAll, a) != a {
			t.Errorf("all meet %v = %v, want %v", a, SignMeet(SignAll, a), a)
		}
	}
}

func TestSignFromIntSoundness(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40)} {
		s := SignFromInt(v)
		if !SignContains(s, v) {
			t.Errorf("SignContains(SignFromInt(%d)=%v, %d) = false, want true", v, s, v)
		}
	}
}

func TestSignComplement(t *testing.T) {
	if SignComplement(SignEqZ) != SignNeZ {
		t.Errorf("complement of EQZ = %v, want NEZ", SignComplement(SignEqZ))
	}
	if SignComplement(SignNeZ) != SignEqZ {
		t.Errorf("complement of NEZ = %v, want EQZ", SignComplement(SignNeZ))
	}
}

func TestSignNegate(t *testing.T) {
	cases := map[Sign]Sign{SignLtZ: SignGtZ, SignGtZ: SignLtZ, SignLeZ: SignGeZ, SignGeZ: SignLeZ, SignEqZ: SignEqZ}
	for in, want := range cases {
		if got := SignNegate(in); got != want {
			t.Errorf("SignNegate(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSignLeqTable(t *testing.T) {
	if !SignLeq(SignEqZ, SignLeZ) {
		t.Errorf("EQZ should be <= LEZ")
	}
	if !SignLeq(SignEqZ, SignGeZ) {
		t.Errorf("EQZ should be <= GEZ")
	}
	if SignLeq(SignLeZ, SignEqZ) {
		t.Errorf("LEZ should not be <= EQZ")
	}
	if !SignLeq(SignBottom, SignLtZ) {
		t.Errorf("BOTTOM should be <= everything")
	}
	if !SignLeq(SignLtZ, SignAll) {
		t.Errorf("everything should be <= ALL")
	}
}
