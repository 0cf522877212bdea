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

package ir

import "fmt"

// Register names a virtual register slot in a method's register file.
type Register uint32

// ResultRegister is the sentinel naming the implicit output of a
// producer instruction (an invoke or an arithmetic op that writes an
// out-of-line result) before it is consumed by a move-result-like
// instruction. It is reset to top by every instruction that does not
// define it.
const ResultRegister Register = 1<<32 - 1

func (r Register) String() string {
	if r == ResultRegister {
		return "result"
	}
	return fmt.Sprintf("v%d", uint32(r))
}

// FieldID names a static field for the optional parallel environment
// tracked when Config.TrackStaticFields is set.
type FieldID string
