// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathcheck

import "github.com/jazzpetri/bltl/formula"

type opcode uint8

const (
	opAtomic opcode = iota
	opNot
	opOr
	opFuture
	opGlobal
)

// instr is one node of a compiled formula.
type instr struct {
	op    opcode
	label string // opAtomic only
	args  []int  // operand instruction indices
}

// Program is a formula compiled into an arena of instructions addressed by
// integer index. Instructions are laid out in pre-order, so the subtree rooted
// at instruction i occupies the contiguous range [i, end[i]).
//
// A Program is immutable and safe for concurrent use. Each Checker created
// from it carries its own evaluation state.
type Program struct {
	formula  formula.Formula
	instrs   []instr
	end      []int
	temporal []bool // subtree contains F or G
}

// Compile builds the Program for f.
func Compile(f formula.Formula) *Program {
	p := &Program{formula: f}
	p.add(f)
	p.end = make([]int, len(p.instrs))
	p.temporal = make([]bool, len(p.instrs))
	p.measure(0)
	return p
}

// Formula returns the formula the program was compiled from.
func (p *Program) Formula() formula.Formula {
	return p.formula
}

func (p *Program) add(f formula.Formula) int {
	idx := len(p.instrs)
	p.instrs = append(p.instrs, instr{})

	var in instr
	switch n := f.(type) {
	case formula.Atomic:
		in = instr{op: opAtomic, label: n.Label}
	case formula.Negation:
		in = instr{op: opNot, args: []int{p.add(n.Operand)}}
	case formula.Disjunction:
		in = instr{op: opOr, args: make([]int, 0, len(n.Operands))}
		for _, operand := range n.Operands {
			in.args = append(in.args, p.add(operand))
		}
	case formula.Future:
		in = instr{op: opFuture, args: []int{p.add(n.Operand)}}
	case formula.Global:
		in = instr{op: opGlobal, args: []int{p.add(n.Operand)}}
	default:
		panic("pathcheck: unsupported formula node")
	}
	p.instrs[idx] = in
	return idx
}

// measure fills end and temporal for the subtree at i and returns end[i].
func (p *Program) measure(i int) int {
	in := p.instrs[i]
	end := i + 1
	temporal := in.op == opFuture || in.op == opGlobal
	for _, a := range in.args {
		end = p.measure(a)
		temporal = temporal || p.temporal[a]
	}
	p.end[i] = end
	p.temporal[i] = temporal
	return end
}

// holds evaluates a propositional subtree against a single observation.
func (p *Program) holds(i int, obs string) bool {
	in := &p.instrs[i]
	switch in.op {
	case opAtomic:
		return obs == in.label
	case opNot:
		return !p.holds(in.args[0], obs)
	case opOr:
		for _, a := range in.args {
			if p.holds(a, obs) {
				return true
			}
		}
		return false
	default:
		panic("pathcheck: temporal operator in propositional subtree")
	}
}

// frame is the evaluation of the subtree rooted at one instruction, started
// at one position of the path. truth and open are indexed by instruction
// index minus root.
type frame struct {
	prog  *Program
	root  int
	truth []formula.Truth

	// open holds, for a temporal instruction whose operand is itself
	// temporal, the operand evaluations started at earlier positions that
	// are still undecided.
	open [][]*frame
}

func (p *Program) newFrame(root int) *frame {
	size := p.end[root] - root
	return &frame{
		prog:  p,
		root:  root,
		truth: make([]formula.Truth, size),
		open:  make([][]*frame, size),
	}
}

// advance folds the next observation into instruction i and returns its
// verdict. A decided verdict is locked; advancing it again is a no-op.
func (fr *frame) advance(i int, obs string, isLast bool) formula.Truth {
	slot := i - fr.root
	if fr.truth[slot].Decided() {
		return fr.truth[slot]
	}

	in := &fr.prog.instrs[i]
	var t formula.Truth
	switch in.op {
	case opAtomic:
		t = formula.Lift(obs == in.label)
	case opNot:
		t = fr.advance(in.args[0], obs, isLast).Not()
	case opOr:
		t = formula.False
		for _, a := range in.args {
			v := fr.advance(a, obs, isLast)
			if v == formula.True {
				t = formula.True
				break
			}
			if v == formula.Unknown {
				t = formula.Unknown
			}
		}
	case opFuture:
		t = fr.advanceTemporal(slot, in.args[0], obs, isLast, formula.True)
	case opGlobal:
		t = fr.advanceTemporal(slot, in.args[0], obs, isLast, formula.False)
	}
	fr.truth[slot] = t
	return t
}

// advanceTemporal evaluates F (witness True) or G (witness False) over the
// operand at instruction operand. The operand is evaluated from the current
// position; a single operand verdict equal to witness decides the operator,
// and reaching the last observation without one decides the opposite.
func (fr *frame) advanceTemporal(slot, operand int, obs string, isLast bool, witness formula.Truth) formula.Truth {
	if !fr.prog.temporal[operand] {
		if formula.Lift(fr.prog.holds(operand, obs)) == witness {
			return witness
		}
		if isLast {
			return witness.Not()
		}
		return formula.Unknown
	}

	open := append(fr.open[slot], fr.prog.newFrame(operand))
	kept := open[:0]
	for _, sub := range open {
		switch sub.advance(operand, obs, isLast) {
		case witness:
			fr.open[slot] = nil
			return witness
		case formula.Unknown:
			kept = append(kept, sub)
		}
	}
	fr.open[slot] = kept
	if isLast {
		fr.open[slot] = nil
		return witness.Not()
	}
	return formula.Unknown
}

// pending returns the number of operand evaluations still open in the frame,
// recursively.
func (fr *frame) pending() int {
	n := 0
	for _, subs := range fr.open {
		for _, sub := range subs {
			n += 1 + sub.pending()
		}
	}
	return n
}
