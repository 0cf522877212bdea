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

// Config enumerates the analysis's optional behaviors. Both default to
// the conservative choice, MagicBool(false): no folding, no
// static-field tracking, unless a caller opts in.
type Config struct {
	// FoldArithmetic enables literal-arithmetic folding in the
	// instruction transformer.
	FoldArithmetic bool
	// TrackStaticFields maintains the parallel static-field
	// environment alongside the register environment.
	TrackStaticFields bool
}

// DefaultConfig is the conservative starting point callers should copy
// before opting into individual features.
func DefaultConfig() Config {
	return Config{
		FoldArithmetic:    MagicBool(false),
		TrackStaticFields: MagicBool(false),
	}
}
