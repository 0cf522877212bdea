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

// Package ir models a register-based three-address instruction set
// plus a tagged-edge basic-block CFG. Nothing here does bytecode
// decoding in the general sense; it is just enough structure for the
// analysis package to consume and for the CLI/tests to build programs
// from a small text form (see assemble.go).
package ir

import "fmt"

// EdgeTag classifies an outgoing CFG edge.
type EdgeTag int

const (
	Fallthrough EdgeTag = iota
	Branch
	Case
)

func (t EdgeTag) String() string {
	switch t {
	case Branch:
		return "branch"
	case Case:
		return "case"
	default:
		return "fallthrough"
	}
}

// Edge is a tagged outgoing edge.
type Edge struct {
	Target    *BasicBlock
	Tag       EdgeTag
	CaseValue int64 // meaningful only when Tag == Case
}

// BasicBlock is an ordered list of instructions, ending (if non-empty
// and its last instruction is a terminator) in a branch/jump/return.
type BasicBlock struct {
	Name   string
	Instrs []Instruction
	Succs  []Edge
	Preds  []*BasicBlock

	index int // position in the CFG's reverse-postorder, set by Order()
}

// Terminator returns the block's last instruction and true, or the
// zero Instruction and false for an empty block.
func (b *BasicBlock) Terminator() (Instruction, bool) {
	if len(b.Instrs) == 0 {
		return Instruction{}, false
	}
	return b.Instrs[len(b.Instrs)-1], true
}

// CFG is a finite directed graph of basic blocks with a unique entry.
type CFG struct {
	Name   string
	Entry  *BasicBlock
	Blocks []*BasicBlock
}

// AddEdge links from to target with the given tag, wiring both the
// successor and predecessor lists.
func (g *CFG) AddEdge(from, target *BasicBlock, tag EdgeTag, caseValue int64) {
	from.Succs = append(from.Succs, Edge{Target: target, Tag: tag, CaseValue: caseValue})
	target.Preds = append(target.Preds, from)
}

// Validate fails fast on malformed IR: an empty block, or a block
// whose successor edges don't match its last instruction's opcode. A
// block ending in a non-terminator is accepted with zero or one
// successor.
func (g *CFG) Validate() error {
	for _, b := range g.Blocks {
		term, ok := b.Terminator()
		if !ok {
			return &MalformedIRError{Block: b.Name, Reason: "block has no instructions"}
		}
		switch term.Op {
		case OpReturn, OpReturnVoid:
			if len(b.Succs) != 0 {
				return &MalformedIRError{Block: b.Name, Reason: "return has outgoing edges"}
			}
		case OpGoto:
			if len(b.Succs) != 1 {
				return &MalformedIRError{Block: b.Name, Reason: "goto must have exactly one successor"}
			}
		case OpIfZ, OpIfCmp:
			if len(b.Succs) != 2 {
				return &MalformedIRError{Block: b.Name, Reason: "conditional branch must have exactly two successors"}
			}
		case OpSwitch:
			if len(b.Succs) == 0 {
				return &MalformedIRError{Block: b.Name, Reason: "switch must have at least one successor"}
			}
		default:
			if len(b.Succs) > 1 {
				return &MalformedIRError{Block: b.Name, Reason: "fall-through block has more than one successor"}
			}
		}
	}
	return nil
}

// MalformedIRError names the block at which CFG validation failed, so
// callers can report a structured error instead of a bare message.
type MalformedIRError struct {
	Block  string
	Reason string
}

func (e *MalformedIRError) Error() string {
	return fmt.Sprintf("malformed IR in block %s: %s", e.Block, e.Reason)
}
