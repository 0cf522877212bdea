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

// Instruction is a decoded three-address instruction. Only the fields
// relevant to Op are meaningful; the rest are zero. This mirrors how a
// real register-machine decoder (e.g. a Dalvik/dex reader) hands the
// analysis a flat, pre-classified struct rather than a union type.
type Instruction struct {
	Op Opcode

	Dst Register // defined register, where applicable
	Src Register // move's source, sput's source
	A   Register // first operand (arith, cmp-long, branches)
	B   Register // second operand (arith-reg, cmp-long, if-cmp)

	Literal int64     // const value, or arith-lit's immediate operand
	ArithOp ArithOp   // OpArithLit / OpArithReg operator
	Cond    CompareOp // OpIfZ / OpIfCmp test

	Field FieldID // OpSGet / OpSPut target

	Cases []SwitchCase // OpSwitch entries, parallel to outgoing Case edges
}

// SwitchCase pairs a literal with the label it jumps to; the CFG
// builder turns each into a Case(v) edge.
type SwitchCase struct {
	Value int64
	Label string
}

// Defines reports the register this instruction assigns, if any. The
// second return is false for instructions with no destination
// (terminators, sput, nop).
func (i Instruction) Defines() (Register, bool) {
	switch i.Op {
	case OpConst, OpMove, OpMoveResult, OpLoadParam, OpCmpLong, OpArithLit, OpArithReg, OpSGet:
		return i.Dst, true
	default:
		return 0, false
	}
}

func (i Instruction) String() string {
	switch i.Op {
	case OpConst:
		return fmt.Sprintf("const %s, %d", i.Dst, i.Literal)
	case OpMove:
		return fmt.Sprintf("move %s, %s", i.Dst, i.Src)
	case OpMoveResult:
		return fmt.Sprintf("move-result %s", i.Dst)
	case OpLoadParam:
		return fmt.Sprintf("load-param %s", i.Dst)
	case OpCmpLong:
		return fmt.Sprintf("cmp-long %s, %s, %s", i.Dst, i.A, i.B)
	case OpArithLit:
		return fmt.Sprintf("%s-lit %s, %s, %d", i.ArithOp, i.Dst, i.A, i.Literal)
	case OpArithReg:
		return fmt.Sprintf("%s %s, %s, %s", i.ArithOp, i.Dst, i.A, i.B)
	case OpInvoke:
		return "invoke"
	case OpSGet:
		return fmt.Sprintf("sget %s, %s", i.Dst, i.Field)
	case OpSPut:
		return fmt.Sprintf("sput %s, %s", i.Src, i.Field)
	case OpGoto:
		return "goto"
	case OpIfZ:
		return fmt.Sprintf("if-%s %s", i.Cond, i.A)
	case OpIfCmp:
		return fmt.Sprintf("if-%s %s, %s", i.Cond, i.A, i.B)
	case OpSwitch:
		return fmt.Sprintf("switch %s", i.A)
	case OpReturn:
		return fmt.Sprintf("return %s", i.A)
	case OpReturnVoid:
		return "return-void"
	default:
		return "nop"
	}
}

// IsConstLoad reports whether the instruction is already a const-load
// of exactly v, used by the transform pass to avoid a no-op rewrite.
func (i Instruction) IsConstLoad(v int64) bool {
	return i.Op == OpConst && i.Literal == v
}

// ConstLoad builds a const instruction loading v into dst.
func ConstLoad(dst Register, v int64) Instruction {
	return Instruction{Op: OpConst, Dst: dst, Literal: v}
}

// Goto builds an unconditional jump.
func Goto() Instruction {
	return Instruction{Op: OpGoto}
}
