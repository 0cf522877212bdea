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

import "fmt"

// NonConvergenceError signals that the fixpoint iterator hit its
// iteration cap: that means a bug in widening, not a user error. It is
// reported as a value describing the cause rather than a panic, and
// the CFG is left unmodified by the caller.
type NonConvergenceError struct {
	Method     string
	Iterations int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("constant propagation did not converge on %s after %d iterations", e.Method, e.Iterations)
}
