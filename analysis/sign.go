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

// Sign is the finite sign-interval lattice: each element names a set
// of concrete int64 values by its relation to zero. Bottom is the
// empty set; All is every int64.
type Sign int

const (
	SignBottom Sign = iota
	SignEqZ         // {0}
	SignLtZ         // negatives
	SignGtZ         // positives
	SignLeZ         // negatives ∪ {0}
	SignGeZ         // positives ∪ {0}
	SignNeZ         // everything but 0
	SignAll         // all int64
	numSigns
)

func (s Sign) String() string {
	switch s {
	case SignBottom:
		return "bottom"
	case SignEqZ:
		return "eqz"
	case SignLtZ:
		return "ltz"
	case SignGtZ:
		return "gtz"
	case SignLeZ:
		return "lez"
	case SignGeZ:
		return "gez"
	case SignNeZ:
		return "nez"
	case SignAll:
		return "all"
	default:
		return "invalid"
	}
}

// SignTopValue and SignBottomValue name the lattice extremes.
func SignTopValue() Sign    { return SignAll }
func SignBottomValue() Sign { return SignBottom }

// SignFromInt returns the tightest of {EqZ, LtZ, GtZ} containing v.
func SignFromInt(v int64) Sign {
	switch {
	case v == 0:
		return SignEqZ
	case v < 0:
		return SignLtZ
	default:
		return SignGtZ
	}
}

// SignContains reports whether v is a member of the concrete set s denotes.
func SignContains(s Sign, v int64) bool {
	switch s {
	case SignBottom:
		return false
	case SignEqZ:
		return v == 0
	case SignLtZ:
		return v < 0
	case SignGtZ:
		return v > 0
	case SignLeZ:
		return v <= 0
	case SignGeZ:
		return v >= 0
	case SignNeZ:
		return v != 0
	case SignAll:
		return true
	default:
		return false
	}
}

// signMask represents a Sign as a bitset over {neg, zero, pos}, which
// makes join/meet/leq simple bitwise operations instead of a
// hand-written 8x8 table; each Sign maps to one of the 8 possible
// three-bit combinations.
type signMask uint8

const (
	maskNeg signMask = 1 << iota
	maskZero
	maskPos
)

var signToMask = [numSigns]signMask{
	SignBottom: 0,
	SignEqZ:    maskZero,
	SignLtZ:    maskNeg,
	SignGtZ:    maskPos,
	SignLeZ:    maskNeg | maskZero,
	SignGeZ:    maskZero | maskPos,
	SignNeZ:    maskNeg | maskPos,
	SignAll:    maskNeg | maskZero | maskPos,
}

var maskToSign = func() map[signMask]Sign {
	m := make(map[signMask]Sign, numSigns)
	for s := Sign(0); s < numSigns; s++ {
		m[signToMask[s]] = s
	}
	return m
}()

// SignJoin computes the least upper bound (set union) of a and b.
func SignJoin(a, b Sign) Sign {
	return maskToSign[signToMask[a]|signToMask[b]]
}

// SignMeet computes the greatest lower bound (set intersection) of a and b.
func SignMeet(a, b Sign) Sign {
	return maskToSign[signToMask[a]&signToMask[b]]
}

// SignLeq reports whether a's concrete set is contained in b's.
func SignLeq(a, b Sign) bool {
	return signToMask[a]&^signToMask[b] == 0
}

// SignComplement returns the sign whose concrete set is the set
// complement of s's within SignAll: complement of EQZ is NEZ, and the
// lattice is closed under the same operation for every other sign
// (e.g. complement of LTZ is GEZ).
func SignComplement(s Sign) Sign {
	return maskToSign[^signToMask[s]&signToMask[SignAll]]
}

// SignNegate returns the sign of -x for x ranging over s's concrete
// set: LTZ<->GTZ and LEZ<->GEZ swap, everything else is a fixed point.
func SignNegate(s Sign) Sign {
	switch s {
	case SignLtZ:
		return SignGtZ
	case SignGtZ:
		return SignLtZ
	case SignLeZ:
		return SignGeZ
	case SignGeZ:
		return SignLeZ
	default:
		return s
	}
}
