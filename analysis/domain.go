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

import (
	"fmt"
	"math"
)

// SignedConstantDomain is the reduced product of Sign and Const: a
// pair kept consistent by reduce after every constructor and every
// binary operation, the way a reduce_product operation on a pair of
// abstract domains would.
type SignedConstantDomain struct {
	sign Sign
	cst  Const
}

// reduce restores the two invariants the reduced product must hold:
//   - sign == EqZ implies the constant coordinate is meet-ed with 0.
//   - a known constant implies the sign coordinate is narrowed to the
//     tightest sign containing it, or the whole pair collapses to
//     bottom if the value and the sign coordinate disagree.
func reduce(s Sign, c Const) SignedConstantDomain {
	if s == SignBottom || c.IsBottom() {
		return SignedConstantDomain{sign: SignBottom, cst: ConstBottomVal()}
	}
	if s == SignEqZ {
		c = c.Meet(ConstFromValue(0))
		if c.IsBottom() {
			return SignedConstantDomain{sign: SignBottom, cst: ConstBottomVal()}
		}
	}
	if v, ok := c.GetConstant(); ok {
		if !SignContains(s, v) {
			return SignedConstantDomain{sign: SignBottom, cst: ConstBottomVal()}
		}
		s = SignMeet(s, SignFromInt(v))
	}
	return SignedConstantDomain{sign: s, cst: c}
}

// FromValue builds the singleton domain element {v}.
func FromValue(v int64) SignedConstantDomain {
	return reduce(SignAll, ConstFromValue(v))
}

// FromInterval builds the domain element with no known constant but a
// known sign interval.
func FromInterval(s Sign) SignedConstantDomain {
	return reduce(s, ConstTopVal())
}

// DomainTop and DomainBottom are the reduced product's extremes.
func DomainTop() SignedConstantDomain    { return SignedConstantDomain{sign: SignAll, cst: ConstTopVal()} }
func DomainBottom() SignedConstantDomain { return SignedConstantDomain{sign: SignBottom, cst: ConstBottomVal()} }

// GetConstant returns the singleton value, if known.
func (d SignedConstantDomain) GetConstant() (int64, bool) { return d.cst.GetConstant() }

// Interval returns the sign-interval coordinate.
func (d SignedConstantDomain) Interval() Sign { return d.sign }

// ConstantDomain returns the constant-lattice coordinate.
func (d SignedConstantDomain) ConstantDomain() Const { return d.cst }

func (d SignedConstantDomain) IsTop() bool    { return d.sign == SignAll && d.cst.IsTop() }
func (d SignedConstantDomain) IsBottom() bool { return d.sign == SignBottom }

// Join is the point-wise join of both coordinates, reduced.
func (d SignedConstantDomain) Join(o SignedConstantDomain) SignedConstantDomain {
	return reduce(SignJoin(d.sign, o.sign), d.cst.Join(o.cst))
}

// Meet is the point-wise meet of both coordinates, reduced.
func (d SignedConstantDomain) Meet(o SignedConstantDomain) SignedConstantDomain {
	return reduce(SignMeet(d.sign, o.sign), d.cst.Meet(o.cst))
}

// Widen is join: the domain has finite height (at most four hops:
// top -> two-sided sign (LEZ/GEZ/NEZ) -> one-sided sign (LTZ/GTZ) ->
// known constant -> bottom), so join already
// guarantees termination. Kept as a distinct named operation so the
// fixpoint iterator has a stable hook if the domain is ever extended
// with an unbounded coordinate.
func (d SignedConstantDomain) Widen(o SignedConstantDomain) SignedConstantDomain {
	return d.Join(o)
}

// Leq is the product order (both coordinates must be <=).
func (d SignedConstantDomain) Leq(o SignedConstantDomain) bool {
	return SignLeq(d.sign, o.sign) && d.cst.Leq(o.cst)
}

func (d SignedConstantDomain) Equals(o SignedConstantDomain) bool {
	return d.sign == o.sign && d.cst.Equals(o.cst)
}

// MaxElement returns the largest concrete value the element admits:
// the known constant if any, else the upper end of the sign interval.
// Lets callers test one-sided bounds without a known singleton.
func (d SignedConstantDomain) MaxElement() int64 {
	if v, ok := d.GetConstant(); ok {
		return v
	}
	switch d.sign {
	case SignLtZ:
		return -1
	case SignLeZ, SignEqZ:
		return 0
	default:
		return math.MaxInt64
	}
}

// MinElement is MaxElement's lower-bound counterpart.
func (d SignedConstantDomain) MinElement() int64 {
	if v, ok := d.GetConstant(); ok {
		return v
	}
	switch d.sign {
	case SignGtZ:
		return 1
	case SignGeZ, SignEqZ:
		return 0
	default:
		return math.MinInt64
	}
}

func (d SignedConstantDomain) String() string {
	if d.IsBottom() {
		return "bottom"
	}
	if v, ok := d.GetConstant(); ok {
		return fmt.Sprintf("%d", v)
	}
	return d.sign.String()
}
