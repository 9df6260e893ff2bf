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

// Package pathcheck evaluates BLTL formulas on finite paths, either in one
// shot over a complete path or online, one observation at a time.
//
// Every evaluation step yields a three-valued verdict: True or False once the
// observations seen so far settle the formula, Unknown while they do not. A
// verdict narrows monotonically: once decided it never changes.
//
// # Usage
//
// Batch, with the complete path known:
//
//	c, err := pathcheck.Check("F([5])", []string{"4", "5"})
//	// c.Truth() == formula.True
//
// Online, as observations arrive:
//
//	c, err := pathcheck.New("G(![error])")
//	for obs := range stream {
//	    verdict, err := c.Update(obs.Label, obs.Last)
//	    if verdict.Decided() {
//	        break
//	    }
//	}
//
// # Semantics
//
//   - [l] is decided by the first observation alone: True iff it equals l.
//   - !φ is the complement of φ; Unknown stays Unknown.
//   - φ|ψ is True as soon as one operand is True, False once every operand
//     is False.
//   - F(φ) is True as soon as φ holds from some position; False when the
//     last observation arrives without that happening.
//   - G(φ) is False as soon as φ fails from some position; True when the
//     last observation arrives without that happening.
//
// Temporal operators may be nested: φ is evaluated from every position, each
// evaluation carrying its own memory until it decides. When φ is
// propositional that memory is a single locked verdict per operator.
//
// The last observation of a path must be flagged with isLast. A path that
// ends without the flag may legitimately leave a temporal verdict Unknown.
package pathcheck

import (
	"errors"
	"fmt"

	"github.com/jazzpetri/bltl/formula"
)

// ErrAlreadyDecided is returned by Update once the verdict is final, either
// because it was decided or because the last observation was consumed.
var ErrAlreadyDecided = errors.New("path verdict already decided")

// Checker drives a compiled formula across the observations of one path.
//
// The state machine is Unknown -> True | False and is terminal once decided.
// A Checker is not safe for concurrent use; independent Checkers may run in
// parallel.
type Checker struct {
	prog  *Program
	root  *frame
	truth formula.Truth

	// steps is the number of observations folded in so far
	steps int

	// closed is set once an observation flagged isLast was consumed
	closed bool
}

// New parses text and returns a Checker for online use.
// Returns an error matching formula.ErrSyntax if text is malformed.
func New(text string) (*Checker, error) {
	f, err := formula.Parse(text)
	if err != nil {
		return nil, err
	}
	return NewFromFormula(f), nil
}

// NewFromFormula returns a Checker for an already parsed formula.
func NewFromFormula(f formula.Formula) *Checker {
	return Compile(f).NewChecker()
}

// NewChecker returns a fresh Checker evaluating the program.
func (p *Program) NewChecker() *Checker {
	return &Checker{
		prog: p,
		root: p.newFrame(0),
	}
}

// Check parses text and evaluates it on path in batch mode. Observations are
// fed in order, the final one flagged as last, stopping as soon as the
// verdict is decided. An empty path leaves the verdict Unknown.
func Check(text string, path []string) (*Checker, error) {
	c, err := New(text)
	if err != nil {
		return nil, err
	}
	c.feed(path)
	return c, nil
}

// CheckPath evaluates f on path in batch mode and returns the verdict and the
// number of observations consumed.
func CheckPath(f formula.Formula, path []string) (formula.Truth, int) {
	return Compile(f).Check(path)
}

// Check evaluates the program on path in batch mode and returns the verdict
// and the number of observations consumed. Safe for concurrent use.
func (p *Program) Check(path []string) (formula.Truth, int) {
	c := p.NewChecker()
	c.feed(path)
	return c.truth, c.steps
}

func (c *Checker) feed(path []string) {
	for i, obs := range path {
		if verdict, _ := c.Update(obs, i == len(path)-1); verdict.Decided() {
			return
		}
	}
}

// Update folds the next observation into the evaluation and returns the
// verdict for the path prefix seen so far. isLast must be true on exactly the
// final observation of the path.
//
// Once the verdict is final, Update leaves the state untouched and returns
// the final verdict together with ErrAlreadyDecided.
func (c *Checker) Update(observation string, isLast bool) (formula.Truth, error) {
	if c.truth.Decided() || c.closed {
		return c.truth, fmt.Errorf("update at step %d: %w", c.steps, ErrAlreadyDecided)
	}
	c.truth = c.root.advance(0, observation, isLast)
	c.steps++
	c.closed = isLast
	return c.truth, nil
}

// Truth returns the current verdict.
func (c *Checker) Truth() formula.Truth {
	return c.truth
}

// Decided reports whether the verdict is final.
func (c *Checker) Decided() bool {
	return c.truth.Decided()
}

// Steps returns the number of observations consumed.
func (c *Checker) Steps() int {
	return c.steps
}

// Formula returns the formula being checked.
func (c *Checker) Formula() formula.Formula {
	return c.prog.formula
}

// Pending returns the number of nested operand evaluations still open.
// It stays zero for formulas whose temporal operators wrap propositional
// operands.
func (c *Checker) Pending() int {
	return c.root.pending()
}
