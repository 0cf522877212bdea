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

// MagicInt and MagicBool wrap implementation-defined constants and
// defaults: written as functions rather than bare literals so each
// call site documents which knob it is (an iteration cap, a config
// default) instead of leaving a bare number in the code.
func MagicInt(n int) int {
	return n
}

func MagicBool(b bool) bool {
	return b
}

// maxFixpointIterations is the non-convergence safeguard: an
// implementation-defined cap protecting against a bug in widening, not
// a limit a well-formed program is expected to hit.
var maxFixpointIterations = MagicInt(10000)
