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

package formula

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax is matched by every error returned from Parse.
var ErrSyntax = errors.New("formula syntax error")

// SyntaxError describes malformed formula text.
type SyntaxError struct {
	// Input is the complete formula text that failed to parse
	Input string

	// Offset is the byte offset in Input where the problem was detected
	Offset int

	// Msg describes the problem
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula syntax error at offset %d in %q: %s", e.Offset, e.Input, e.Msg)
}

// Unwrap returns ErrSyntax so callers can use errors.Is.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNot
	tokOr
	tokLParen
	tokRParen
	tokAtomic
	tokFuture
	tokGlobal
)

type token struct {
	kind   tokenKind
	text   string // label for tokAtomic
	offset int
}

// Parse builds the expression tree for text.
//
// Returns a *SyntaxError (matching ErrSyntax) for empty input, unbalanced
// parentheses, unterminated or empty atomic brackets, unknown operator
// tokens and trailing tokens.
func Parse(text string) (Formula, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{input: text, tokens: tokens}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(0, "empty formula")
	}
	f, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.kind {
	case tokEOF:
		return f, nil
	case tokRParen:
		return nil, p.errorf(tok.offset, "unbalanced ')'")
	default:
		return nil, p.errorf(tok.offset, "unexpected %s after end of formula", describe(tok))
	}
}

// MustParse is like Parse but panics on error. It simplifies initialization
// of formulas known to be valid.
func MustParse(text string) Formula {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

func lex(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case r == '!':
			tokens = append(tokens, token{kind: tokNot, offset: i})
		case r == '|':
			tokens = append(tokens, token{kind: tokOr, offset: i})
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, offset: i})
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, offset: i})
		case r == 'F':
			tokens = append(tokens, token{kind: tokFuture, offset: i})
		case r == 'G':
			tokens = append(tokens, token{kind: tokGlobal, offset: i})
		case r == '[':
			end := strings.IndexAny(input[i+1:], "[]")
			if end < 0 || input[i+1+end] == '[' {
				return nil, &SyntaxError{Input: input, Offset: i, Msg: "unterminated atomic proposition"}
			}
			label := strings.TrimSpace(input[i+1 : i+1+end])
			if label == "" {
				return nil, &SyntaxError{Input: input, Offset: i, Msg: "empty atomic proposition"}
			}
			tokens = append(tokens, token{kind: tokAtomic, text: label, offset: i})
			i += end + 2
			continue
		case r == ']':
			return nil, &SyntaxError{Input: input, Offset: i, Msg: "unbalanced ']'"}
		default:
			return nil, &SyntaxError{Input: input, Offset: i, Msg: fmt.Sprintf("unknown operator %q", r)}
		}
		i += size
	}
	return append(tokens, token{kind: tokEOF, offset: len(input)}), nil
}

type parser struct {
	input  string
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Input: p.input, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseDisjunction() (Formula, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	operands := []Formula{first}
	for p.peek().kind == tokOr {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}
	if len(operands) == 1 {
		return first, nil
	}
	return Disjunction{Operands: operands}, nil
}

func (p *parser) parseUnary() (Formula, error) {
	tok := p.next()
	switch tok.kind {
	case tokNot:
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Negation{Operand: operand}, nil
	case tokAtomic:
		return Atomic{Label: tok.text}, nil
	case tokFuture, tokGlobal:
		if open := p.next(); open.kind != tokLParen {
			return nil, p.errorf(open.offset, "expected '(' after %s, found %s", describe(tok), describe(open))
		}
		operand, err := p.parseGroup(tok)
		if err != nil {
			return nil, err
		}
		if tok.kind == tokFuture {
			return Future{Operand: operand}, nil
		}
		return Global{Operand: operand}, nil
	case tokLParen:
		return p.parseGroup(tok)
	case tokEOF:
		return nil, p.errorf(tok.offset, "unexpected end of formula")
	case tokRParen:
		return nil, p.errorf(tok.offset, "unbalanced ')'")
	default:
		return nil, p.errorf(tok.offset, "missing operand before %s", describe(tok))
	}
}

// parseGroup parses a parenthesized formula whose '(' has been consumed.
func (p *parser) parseGroup(opener token) (Formula, error) {
	f, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if closer := p.next(); closer.kind != tokRParen {
		return nil, p.errorf(closer.offset, "unbalanced '(': expected ')' closing %s at offset %d, found %s",
			describe(opener), opener.offset, describe(closer))
	}
	return f, nil
}

func describe(tok token) string {
	switch tok.kind {
	case tokEOF:
		return "end of formula"
	case tokNot:
		return "'!'"
	case tokOr:
		return "'|'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokAtomic:
		return "[" + tok.text + "]"
	case tokFuture:
		return "'F'"
	case tokGlobal:
		return "'G'"
	default:
		return "token"
	}
}
