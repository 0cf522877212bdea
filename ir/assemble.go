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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// rawInsn is a parsed instruction together with its un-resolved
// branch-target labels, before blocks and edges exist.
type rawInsn struct {
	insn    Instruction
	labels  []string // goto/if target(s), in source order; if's fallthrough is implicit
	targets []string // switch case labels, parallel to insn.Cases
}

// Parse reads the small assembly form used by the CLI and by tests
// to build programs, e.g.:
//
//	load-param v0
//	const v1, 0
//	L1:
//	if-eqz v0, L2
//	const v1, 1
//	L2:
//	return-void
//
// A label may either stand alone on its own line or prefix an
// instruction on the same line ("L1: const v1, 1"). Blocks are cut
// at every label and after every terminator. The last block may end
// in a non-terminator, in which case it has no successors.
func Parse(name, src string) (*CFG, error) {
	var raws []rawInsn
	labelOfInsn := map[int]string{} // instruction index -> label naming it

	lines := strings.Split(src, "\n")
	for lineNo, line := range lines {
		line = stripComment(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.Index(line, ":"); idx >= 0 && isLabelToken(line[:idx]) {
			label := strings.TrimSpace(line[:idx])
			rest := strings.TrimSpace(line[idx+1:])
			labelOfInsn[len(raws)] = label
			if rest == "" {
				continue
			}
			line = rest
		}
		r, err := parseInsn(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		raws = append(raws, r)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("empty program")
	}

	// Resolve every label to the instruction index it names.
	labelIndex := map[string]int{}
	for idx, label := range labelOfInsn {
		labelIndex[label] = idx
	}

	// Cut blocks: a new block starts at 0, at any labeled instruction,
	// and right after a terminator.
	blockStart := map[int]bool{0: true}
	for idx := range labelOfInsn {
		blockStart[idx] = true
	}
	for idx, r := range raws {
		if r.insn.Op.IsTerminator() && idx+1 < len(raws) {
			blockStart[idx+1] = true
		}
	}

	g := &CFG{Name: name}
	insnToBlock := make([]*BasicBlock, len(raws))
	var cur *BasicBlock
	for idx, r := range raws {
		if blockStart[idx] {
			name := labelOfInsn[idx]
			if name == "" {
				name = fmt.Sprintf("bb%d", len(g.Blocks))
			}
			cur = &BasicBlock{Name: name}
			g.Blocks = append(g.Blocks, cur)
		}
		cur.Instrs = append(cur.Instrs, r.insn)
		insnToBlock[idx] = cur
	}
	g.Entry = g.Blocks[0]

	blockOf := func(label string) (*BasicBlock, error) {
		idx, ok := labelIndex[label]
		if !ok {
			return nil, fmt.Errorf("undefined label %q", label)
		}
		return insnToBlock[idx], nil
	}
	fallthroughOf := func(idx int) (*BasicBlock, bool) {
		if idx+1 >= len(raws) {
			return nil, false
		}
		return insnToBlock[idx+1], true
	}

	for idx, r := range raws {
		b := insnToBlock[idx]
		// Only the block's terminator (last instruction) gets edges.
		if idx+1 < len(raws) && insnToBlock[idx+1] == b {
			continue
		}
		switch r.insn.Op {
		case OpGoto:
			tgt, err := blockOf(r.labels[0])
			if err != nil {
				return nil, err
			}
			g.AddEdge(b, tgt, Fallthrough, 0)
		case OpIfZ, OpIfCmp:
			tgt, err := blockOf(r.labels[0])
			if err != nil {
				return nil, err
			}
			g.AddEdge(b, tgt, Branch, 0)
			ft, ok := fallthroughOf(idx)
			if !ok {
				return nil, fmt.Errorf("conditional branch at end of program has no fall-through")
			}
			g.AddEdge(b, ft, Fallthrough, 0)
		case OpSwitch:
			for i, lbl := range r.targets {
				tgt, err := blockOf(lbl)
				if err != nil {
					return nil, err
				}
				g.AddEdge(b, tgt, Case, r.insn.Cases[i].Value)
			}
			ft, ok := fallthroughOf(idx)
			if ok {
				g.AddEdge(b, ft, Fallthrough, 0)
			}
		case OpReturn, OpReturnVoid:
			// no successors
		default:
			// The program's last block may end without a terminator;
			// it then has no successors.
			if ft, ok := fallthroughOf(idx); ok {
				g.AddEdge(b, ft, Fallthrough, 0)
			}
		}
	}

	return g, g.Validate()
}

func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	if idx := strings.Index(line, "#"); idx >= 0 {
		return line[:idx]
	}
	return line
}

// isLabelToken reports whether s (text preceding a ':') looks like a
// bare label rather than, say, a register ("cmp-long v0, v1, v2" has
// no colon so this doesn't matter there).
func isLabelToken(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == ' ' || r == ',' {
			return false
		}
	}
	return true
}

func parseInsn(line string) (rawInsn, error) {
	fields := tokenize(line)
	if len(fields) == 0 {
		return rawInsn{}, fmt.Errorf("empty instruction")
	}
	mn := fields[0]
	args := fields[1:]

	reg := func(s string) (Register, error) {
		if s == "result" {
			return ResultRegister, nil
		}
		if !strings.HasPrefix(s, "v") {
			return 0, fmt.Errorf("expected register, got %q", s)
		}
		n, err := strconv.ParseUint(s[1:], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("bad register %q: %w", s, err)
		}
		return Register(n), nil
	}
	lit := func(s string) (int64, error) { return parseLiteral(s) }

	switch {
	case mn == "nop":
		return rawInsn{insn: Instruction{Op: OpNop}}, nil
	case mn == "const":
		d, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		v, err := lit(args[1])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpConst, Dst: d, Literal: v}}, nil
	case mn == "move":
		d, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		s, err := reg(args[1])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpMove, Dst: d, Src: s}}, nil
	case mn == "move-result":
		d, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpMoveResult, Dst: d}}, nil
	case mn == "load-param":
		d, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpLoadParam, Dst: d}}, nil
	case mn == "cmp-long":
		d, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		a, err := reg(args[1])
		if err != nil {
			return rawInsn{}, err
		}
		b, err := reg(args[2])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpCmpLong, Dst: d, A: a, B: b}}, nil
	case mn == "invoke":
		return rawInsn{insn: Instruction{Op: OpInvoke}}, nil
	case mn == "sget":
		d, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpSGet, Dst: d, Field: FieldID(args[1])}}, nil
	case mn == "sput":
		s, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpSPut, Src: s, Field: FieldID(args[1])}}, nil
	case mn == "goto":
		return rawInsn{insn: Instruction{Op: OpGoto}, labels: []string{args[0]}}, nil
	case strings.HasPrefix(mn, "if-"):
		cond, isUnary, err := parseCond(strings.TrimPrefix(mn, "if-"))
		if err != nil {
			return rawInsn{}, err
		}
		a, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		if isUnary {
			return rawInsn{insn: Instruction{Op: OpIfZ, Cond: cond, A: a}, labels: []string{args[1]}}, nil
		}
		b, err := reg(args[1])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpIfCmp, Cond: cond, A: a, B: b}, labels: []string{args[2]}}, nil
	case mn == "switch":
		a, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		r := rawInsn{insn: Instruction{Op: OpSwitch, A: a}}
		for _, pair := range args[1:] {
			kv := strings.SplitN(pair, "->", 2)
			if len(kv) != 2 {
				return rawInsn{}, fmt.Errorf("bad switch case %q", pair)
			}
			v, err := lit(kv[0])
			if err != nil {
				return rawInsn{}, err
			}
			r.insn.Cases = append(r.insn.Cases, SwitchCase{Value: v, Label: kv[1]})
			r.targets = append(r.targets, kv[1])
		}
		return r, nil
	case mn == "return-void":
		return rawInsn{insn: Instruction{Op: OpReturnVoid}}, nil
	case mn == "return":
		a, err := reg(args[0])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpReturn, A: a}}, nil
	default:
		return parseArith(mn, args, reg, lit)
	}
}

func parseArith(mn string, args []string, reg func(string) (Register, error), lit func(string) (int64, error)) (rawInsn, error) {
	isLit := strings.HasSuffix(mn, "-lit")
	opName := strings.TrimSuffix(mn, "-lit")
	op, err := parseArithOp(opName)
	if err != nil {
		return rawInsn{}, err
	}
	d, err := reg(args[0])
	if err != nil {
		return rawInsn{}, err
	}
	a, err := reg(args[1])
	if err != nil {
		return rawInsn{}, err
	}
	if isLit {
		v, err := lit(args[2])
		if err != nil {
			return rawInsn{}, err
		}
		return rawInsn{insn: Instruction{Op: OpArithLit, ArithOp: op, Dst: d, A: a, Literal: v}}, nil
	}
	b, err := reg(args[2])
	if err != nil {
		return rawInsn{}, err
	}
	return rawInsn{insn: Instruction{Op: OpArithReg, ArithOp: op, Dst: d, A: a, B: b}}, nil
}

func parseArithOp(s string) (ArithOp, error) {
	switch s {
	case "add":
		return Add, nil
	case "sub":
		return Sub, nil
	case "rsub":
		return RSub, nil
	case "mul":
		return Mul, nil
	case "div":
		return Div, nil
	case "rem":
		return Rem, nil
	case "and":
		return And, nil
	case "or":
		return Or, nil
	case "xor":
		return Xor, nil
	case "shl":
		return Shl, nil
	case "shr":
		return Shr, nil
	case "ushr":
		return UShr, nil
	default:
		return 0, fmt.Errorf("unknown mnemonic %q", s)
	}
}

func parseCond(s string) (CompareOp, bool, error) {
	switch s {
	case "eqz":
		return EqZ, true, nil
	case "nez":
		return NeZ, true, nil
	case "ltz":
		return LtZ, true, nil
	case "gtz":
		return GtZ, true, nil
	case "lez":
		return LeZ, true, nil
	case "gez":
		return GeZ, true, nil
	case "eq":
		return Eq, false, nil
	case "ne":
		return Ne, false, nil
	case "lt":
		return Lt, false, nil
	case "le":
		return Le, false, nil
	case "gt":
		return Gt, false, nil
	case "ge":
		return Ge, false, nil
	default:
		return 0, false, fmt.Errorf("unknown condition %q", s)
	}
}

// parseLiteral parses a decimal or 0x-prefixed hex integer immediate,
// using math.ParseBig256 the way a push-immediate decoder would.
func parseLiteral(s string) (int64, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var v int64
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, ok := math.ParseBig256(s)
		if !ok {
			return 0, fmt.Errorf("bad hex literal %q", s)
		}
		v = b.Int64()
	} else {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad literal %q: %w", s, err)
		}
		v = n
	}
	if neg {
		v = -v
	}
	return v, nil
}

func tokenize(line string) []string {
	line = strings.ReplaceAll(line, ",", " ")
	return strings.Fields(line)
}
