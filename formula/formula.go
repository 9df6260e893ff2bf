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

// Package formula defines bounded linear temporal logic (BLTL) formulas over
// finite paths of labeled states, and the parser that builds them from text.
//
// A formula is an immutable expression tree. It is built once, usually with
// Parse, and can then be evaluated against any number of paths by the
// pathcheck package.
//
// # Syntax
//
//	formula     := disjunction
//	disjunction := unary ('|' unary)*
//	unary       := '!' unary | atomic | temporal | '(' formula ')'
//	atomic      := '[' label ']'
//	temporal    := 'F' '(' formula ')' | 'G' '(' formula ')'
//
// Whitespace between tokens is ignored. A label is compared by string
// equality against the observations of a path; no type coercion happens.
//
// # Usage
//
//	f, err := formula.Parse("F([done]) | G(![error])")
//	if err != nil {
//	    var syntaxErr *formula.SyntaxError
//	    errors.As(err, &syntaxErr) // offset and message of the problem
//	}
//	fmt.Println(f) // F([done])|G(![error])
package formula

import "strings"

// Formula is a node of a BLTL expression tree.
// The concrete node types are Atomic, Negation, Disjunction, Future and Global.
type Formula interface {
	// String renders the formula in the syntax accepted by Parse.
	String() string

	isFormula()
}

// Atomic is an elementary proposition: it holds on a path whose first
// observation equals Label.
type Atomic struct {
	Label string
}

// Negation is logical NOT.
type Negation struct {
	Operand Formula
}

// Disjunction is logical OR over two or more operands.
type Disjunction struct {
	Operands []Formula
}

// Future ("eventually", F) holds if Operand holds at the current step or at
// any later step of the path.
type Future struct {
	Operand Formula
}

// Global ("always", G) holds if Operand holds at every step from the current
// one through the last.
type Global struct {
	Operand Formula
}

func (Atomic) isFormula()      {}
func (Negation) isFormula()    {}
func (Disjunction) isFormula() {}
func (Future) isFormula()      {}
func (Global) isFormula()      {}

func (a Atomic) String() string {
	return "[" + a.Label + "]"
}

func (n Negation) String() string {
	return "!" + group(n.Operand)
}

func (d Disjunction) String() string {
	parts := make([]string, len(d.Operands))
	for i, op := range d.Operands {
		parts[i] = group(op)
	}
	return strings.Join(parts, "|")
}

func (f Future) String() string {
	return "F(" + f.Operand.String() + ")"
}

func (g Global) String() string {
	return "G(" + g.Operand.String() + ")"
}

// group parenthesizes a disjunction used as the operand of a tighter-binding
// operator.
func group(f Formula) string {
	if _, ok := f.(Disjunction); ok {
		return "(" + f.String() + ")"
	}
	return f.String()
}

// TemporalDepth returns the maximum nesting depth of F and G operators in f.
// Propositional formulas have depth 0; F([a]) has depth 1; F(G([a])) has
// depth 2.
func TemporalDepth(f Formula) int {
	switch n := f.(type) {
	case Negation:
		return TemporalDepth(n.Operand)
	case Disjunction:
		depth := 0
		for _, op := range n.Operands {
			depth = max(depth, TemporalDepth(op))
		}
		return depth
	case Future:
		return 1 + TemporalDepth(n.Operand)
	case Global:
		return 1 + TemporalDepth(n.Operand)
	default:
		return 0
	}
}

// Labels returns the distinct atomic labels of f in order of first appearance.
func Labels(f Formula) []string {
	seen := make(map[string]bool)
	var labels []string
	var walk func(Formula)
	walk = func(f Formula) {
		switch n := f.(type) {
		case Atomic:
			if !seen[n.Label] {
				seen[n.Label] = true
				labels = append(labels, n.Label)
			}
		case Negation:
			walk(n.Operand)
		case Disjunction:
			for _, op := range n.Operands {
				walk(op)
			}
		case Future:
			walk(n.Operand)
		case Global:
			walk(n.Operand)
		}
	}
	walk(f)
	return labels
}
