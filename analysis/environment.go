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

// Environment is the abstract environment: a finite mapping from a key
// (ir.Register, or ir.FieldID for the optional static-field tracking)
// to a SignedConstantDomain, semantically total with absent keys
// meaning top.
//
// It is written generic over the key type rather than duplicated per
// key (the way a C++ template would be instantiated twice for a
// register environment and a static-field environment) so both share
// one implementation and are treated uniformly by the rest of the
// package.
//
// The representation is a plain Go map treated as persistent by
// always copying before mutating (clone), the value-semantic
// discipline the fixpoint iterator's per-block entry-state table
// requires.
type Environment[K comparable] struct {
	isBottom bool
	bindings map[K]SignedConstantDomain
}

// TopEnvironment returns the environment mapping every key to top.
func TopEnvironment[K comparable]() Environment[K] {
	return Environment[K]{bindings: map[K]SignedConstantDomain{}}
}

// BottomEnvironment returns the sentinel environment mapping every key
// to bottom.
func BottomEnvironment[K comparable]() Environment[K] {
	return Environment[K]{isBottom: true}
}

// IsBottom reports whether this is the sentinel Bottom environment.
func (e Environment[K]) IsBottom() bool { return e.isBottom }

// Get returns the value bound to k, or top if k is absent. If the
// whole environment is bottom every key's concrete meaning is bottom
// too; callers should check IsBottom first rather than rely on Get to
// surface it.
func (e Environment[K]) Get(k K) SignedConstantDomain {
	if e.isBottom {
		return DomainBottom()
	}
	if v, ok := e.bindings[k]; ok {
		return v
	}
	return DomainTop()
}

// Set returns a copy of e with k bound to v. Storing top elides the
// key, keeping the map sparse; storing bottom poisons the whole result
// to BottomEnvironment, since an environment containing one bottom
// binding is semantically bottom.
func (e Environment[K]) Set(k K, v SignedConstantDomain) Environment[K] {
	if e.isBottom {
		return e
	}
	if v.IsBottom() {
		return BottomEnvironment[K]()
	}
	next := e.clone()
	if v.IsTop() {
		delete(next.bindings, k)
	} else {
		next.bindings[k] = v
	}
	return next
}

// Clear returns a copy of e with k reset to top (used when an
// instruction does not define a register but must still invalidate
// any prior binding, e.g. the RESULT sentinel after any instruction
// that does not write it).
func (e Environment[K]) Clear(k K) Environment[K] {
	return e.Set(k, DomainTop())
}

func (e Environment[K]) clone() Environment[K] {
	next := make(map[K]SignedConstantDomain, len(e.bindings))
	for k, v := range e.bindings {
		next[k] = v
	}
	return Environment[K]{bindings: next}
}

// Join is the point-wise join; absent keys act as top on both sides.
func (e Environment[K]) Join(o Environment[K]) Environment[K] {
	if e.isBottom {
		return o
	}
	if o.isBottom {
		return e
	}
	result := TopEnvironment[K]()
	for k, v := range e.bindings {
		ov := o.Get(k)
		if joined := v.Join(ov); !joined.IsTop() {
			result.bindings[k] = joined
		}
	}
	for k, ov := range o.bindings {
		if _, done := e.bindings[k]; done {
			continue
		}
		if joined := e.Get(k).Join(ov); !joined.IsTop() {
			result.bindings[k] = joined
		}
	}
	return result
}

// Meet is the point-wise meet; absent keys act as top on both sides.
// If any resulting binding is bottom, the whole environment collapses
// to BottomEnvironment.
func (e Environment[K]) Meet(o Environment[K]) Environment[K] {
	if e.isBottom || o.isBottom {
		return BottomEnvironment[K]()
	}
	result := TopEnvironment[K]()
	see := func(k K) {
		if _, done := result.bindings[k]; done {
			return
		}
		m := e.Get(k).Meet(o.Get(k))
		if m.IsBottom() {
			result = BottomEnvironment[K]()
			return
		}
		if !m.IsTop() {
			result.bindings[k] = m
		}
	}
	for k := range e.bindings {
		see(k)
		if result.isBottom {
			return result
		}
	}
	for k := range o.bindings {
		see(k)
		if result.isBottom {
			return result
		}
	}
	return result
}

// Widen point-wise widens, which coincides with Join on this
// finite-height domain.
func (e Environment[K]) Widen(o Environment[K]) Environment[K] {
	return e.Join(o)
}

// Equals is structural equality modulo top-elision: two environments
// are equal iff every key either coincides or is absent-meaning-top
// on both sides.
func (e Environment[K]) Equals(o Environment[K]) bool {
	if e.isBottom != o.isBottom {
		return false
	}
	if e.isBottom {
		return true
	}
	seen := map[K]bool{}
	for k, v := range e.bindings {
		if !v.Equals(o.Get(k)) {
			return false
		}
		seen[k] = true
	}
	for k, v := range o.bindings {
		if seen[k] {
			continue
		}
		if !v.Equals(e.Get(k)) {
			return false
		}
	}
	return true
}
