// Copyright 2018 MPI-SWS, Valentin Wuestholz, and ConsenSys AG

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
	stdmath "math"

	ethmath "github.com/ethereum/go-ethereum/common/math"

	"github.com/practical-formal-methods/constprop/ir"
)

// State is the full abstract state threaded through a block: the
// register environment plus, when Config.TrackStaticFields is set,
// the parallel static-field environment.
type State struct {
	Regs   Environment[ir.Register]
	Fields Environment[ir.FieldID]
}

// TopState is the entry state of an analysis: every register and
// field top.
func TopState() State {
	return State{Regs: TopEnvironment[ir.Register](), Fields: TopEnvironment[ir.FieldID]()}
}

// BottomState models unreachable code.
func BottomState() State {
	return State{Regs: BottomEnvironment[ir.Register](), Fields: BottomEnvironment[ir.FieldID]()}
}

func (s State) IsBottom() bool { return s.Regs.IsBottom() }

func (s State) Join(o State) State {
	return State{Regs: s.Regs.Join(o.Regs), Fields: s.Fields.Join(o.Fields)}
}

func (s State) Widen(o State) State {
	return State{Regs: s.Regs.Widen(o.Regs), Fields: s.Fields.Widen(o.Fields)}
}

func (s State) Equals(o State) bool {
	return s.Regs.Equals(o.Regs) && s.Fields.Equals(o.Fields)
}

// stepFn is one entry of the opcode dispatch table: rather than one
// large switch, each opcode family owns a small function, registered
// once.
type stepFn func(State, ir.Instruction, Config) State

var transformTable = map[ir.Opcode]stepFn{
	ir.OpNop:         stepNop,
	ir.OpConst:       stepConst,
	ir.OpMove:        stepMove,
	ir.OpMoveResult:  stepMoveResult,
	ir.OpLoadParam:   stepLoadParam,
	ir.OpCmpLong:     stepCmpLong,
	ir.OpArithLit:    stepArithLit,
	ir.OpArithReg:    stepArithReg,
	ir.OpInvoke:      stepUnmodeled,
	ir.OpSGet:        stepSGet,
	ir.OpSPut:        stepSPut,
	ir.OpOther:       stepUnmodeled,
	ir.OpGoto:        stepNop,
	ir.OpIfZ:         stepNop,
	ir.OpIfCmp:       stepNop,
	ir.OpSwitch:      stepNop,
	ir.OpReturn:      stepNop,
	ir.OpReturnVoid:  stepNop,
}

// Step runs the instruction abstract transformer on one instruction.
// The result register is reset to top on any instruction that does
// not define it; stepMoveResult is the only family that both reads
// and then clears it itself, so the blanket clear after dispatch is a
// no-op there.
func Step(s State, insn ir.Instruction, cfg Config) State {
	if s.IsBottom() {
		return s
	}
	fn, ok := transformTable[insn.Op]
	if !ok {
		fn = stepUnmodeled
	}
	next := fn(s, insn, cfg)
	if insn.Op != ir.OpMoveResult {
		next.Regs = next.Regs.Clear(ir.ResultRegister)
	}
	return next
}

func stepNop(s State, _ ir.Instruction, _ Config) State { return s }

func stepConst(s State, insn ir.Instruction, _ Config) State {
	s.Regs = s.Regs.Set(insn.Dst, FromValue(insn.Literal))
	return s
}

func stepMove(s State, insn ir.Instruction, _ Config) State {
	s.Regs = s.Regs.Set(insn.Dst, s.Regs.Get(insn.Src))
	return s
}

func stepMoveResult(s State, insn ir.Instruction, _ Config) State {
	s.Regs = s.Regs.Set(insn.Dst, s.Regs.Get(ir.ResultRegister))
	s.Regs = s.Regs.Clear(ir.ResultRegister)
	return s
}

func stepLoadParam(s State, insn ir.Instruction, _ Config) State {
	s.Regs = s.Regs.Clear(insn.Dst)
	return s
}

func stepUnmodeled(s State, insn ir.Instruction, _ Config) State {
	if dst, ok := insn.Defines(); ok {
		s.Regs = s.Regs.Clear(dst)
	}
	return s
}

func stepSGet(s State, insn ir.Instruction, cfg Config) State {
	if !cfg.TrackStaticFields {
		s.Regs = s.Regs.Clear(insn.Dst)
		return s
	}
	s.Regs = s.Regs.Set(insn.Dst, s.Fields.Get(insn.Field))
	return s
}

func stepSPut(s State, insn ir.Instruction, cfg Config) State {
	if !cfg.TrackStaticFields {
		return s
	}
	s.Fields = s.Fields.Set(insn.Field, s.Regs.Get(insn.Src))
	return s
}

// stepCmpLong computes an exact sign(a-b) when both are singleton
// constants, else a sign derived from the operands' bounds when they
// force a strict inequality (using MaxElement/MinElement), else top.
func stepCmpLong(s State, insn ir.Instruction, _ Config) State {
	a := s.Regs.Get(insn.A)
	b := s.Regs.Get(insn.B)

	if av, ok := a.GetConstant(); ok {
		if bv, ok2 := b.GetConstant(); ok2 {
			s.Regs = s.Regs.Set(insn.Dst, FromValue(cmpSign(av, bv)))
			return s
		}
	}
	if !a.IsBottom() && !b.IsBottom() {
		if a.MaxElement() < b.MinElement() {
			s.Regs = s.Regs.Set(insn.Dst, FromValue(-1))
			return s
		}
		if a.MinElement() > b.MaxElement() {
			s.Regs = s.Regs.Set(insn.Dst, FromValue(1))
			return s
		}
	}
	s.Regs = s.Regs.Clear(insn.Dst)
	return s
}

func cmpSign(a, b int64) int64 {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// stepArithLit folds a literal arithmetic op only when
// Config.FoldArithmetic is set and the source register is a singleton
// constant that, combined with the literal, produces a 32-bit
// wrap-around result that does not actually overflow; an overflowing
// combination is left unmodeled (destination top). For example,
// INT32_MAX+1 stays unmodeled rather than folding to a wrapped value.
func stepArithLit(s State, insn ir.Instruction, cfg Config) State {
	if !cfg.FoldArithmetic {
		s.Regs = s.Regs.Clear(insn.Dst)
		return s
	}
	a := s.Regs.Get(insn.A)
	av, ok := a.GetConstant()
	if !ok {
		s.Regs = s.Regs.Clear(insn.Dst)
		return s
	}
	if v, ok := foldArith32(insn.ArithOp, av, insn.Literal); ok {
		s.Regs = s.Regs.Set(insn.Dst, FromValue(v))
		return s
	}
	s.Regs = s.Regs.Clear(insn.Dst)
	return s
}

func stepArithReg(s State, insn ir.Instruction, _ Config) State {
	// Arithmetic between two registers always yields top for the
	// destination, regardless of FoldArithmetic.
	s.Regs = s.Regs.Clear(insn.Dst)
	return s
}

// foldArith32 computes op(a, lit) with 32-bit wrap-around signed
// semantics, reporting ok=false when the mathematical result would
// not fit in an int32 (i.e. when 32-bit wrap-around would actually
// kick in) so the caller leaves the destination top instead of
// folding an overflowing add. An operand that is itself outside int32
// is never folded either.
//
// The addition/subtraction/multiplication is computed with
// ethereum/go-ethereum's overflow-checked primitives (the same
// package a gas/memory-size calculator would reach for, e.g.
// math.SafeMul guarding memory-size arithmetic); the bit pattern they
// return is then range-checked against int32, which is the
// signed-overflow test actually needed here (a wrapped uint64 sum is
// never itself out-of-range for int64, so the SafeAdd/SafeSub/SafeMul
// boolean alone cannot detect it).
func foldArith32(op ir.ArithOp, a, lit int64) (int64, bool) {
	if a < stdmath.MinInt32 || a > stdmath.MaxInt32 || lit < stdmath.MinInt32 || lit > stdmath.MaxInt32 {
		return 0, false
	}
	var raw int64
	switch op {
	case ir.Add:
		sum, _ := ethmath.SafeAdd(uint64(a), uint64(lit))
		raw = int64(sum)
	case ir.Sub:
		diff, _ := ethmath.SafeSub(uint64(a), uint64(lit))
		raw = int64(diff)
	case ir.RSub:
		diff, _ := ethmath.SafeSub(uint64(lit), uint64(a))
		raw = int64(diff)
	case ir.Mul:
		prod, _ := ethmath.SafeMul(uint64(a), uint64(lit))
		raw = int64(prod)
	case ir.Div:
		if lit == 0 {
			return 0, false
		}
		raw = a / lit
	case ir.Rem:
		if lit == 0 {
			return 0, false
		}
		raw = a % lit
	case ir.And:
		raw = a & lit
	case ir.Or:
		raw = a | lit
	case ir.Xor:
		raw = a ^ lit
	case ir.Shl:
		raw = a << uint(lit&31)
	case ir.Shr:
		raw = a >> uint(lit&31)
	case ir.UShr:
		raw = int64(uint32(a) >> uint(lit&31))
	default:
		return 0, false
	}
	if raw < stdmath.MinInt32 || raw > stdmath.MaxInt32 {
		return 0, false
	}
	return raw, true
}
