// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/esmtools/esmcheck/pkg/filepos"
)

// Expr is a parsed validator expression, eg `str(min=3, required=False)`
// or `list(include('dataset'), min=1)`.
type Expr struct {
	Name string
	Args []Arg
	Pos  *filepos.Position
}

// Arg is a single argument; Name is empty for positional arguments.
type Arg struct {
	Name  string
	Value Value
}

// Value is either a literal scalar or a nested expression.
type Value struct {
	Scalar interface{}
	Expr   *Expr
	IsExpr bool
}

// Kwarg returns the value of a keyword argument, if present.
func (e *Expr) Kwarg(name string) (Value, bool) {
	for _, arg := range e.Args {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return Value{}, false
}

// Positional returns the positional arguments in order.
func (e *Expr) Positional() []Value {
	var result []Value
	for _, arg := range e.Args {
		if arg.Name == "" {
			result = append(result, arg.Value)
		}
	}
	return result
}

// ParseExpr parses a validator expression. The grammar is a single
// function call whose arguments are literals (strings, numbers, booleans,
// None), nested calls, or keyword arguments.
func ParseExpr(src string, pos *filepos.Position) (*Expr, error) {
	lex := &exprLexer{src: src, pos: pos}
	tokens, err := lex.tokens()
	if err != nil {
		return nil, err
	}

	parser := &exprParser{tokens: tokens, src: src, pos: pos}
	expr, err := parser.parseCall()
	if err != nil {
		return nil, err
	}
	if !parser.atEnd() {
		return nil, parser.errorf("unexpected trailing input after expression")
	}
	return expr, nil
}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenLparen
	tokenRparen
	tokenComma
	tokenEq
	tokenEOF
)

type token struct {
	kind tokenKind
	val  string
}

type exprLexer struct {
	src string
	pos *filepos.Position
	i   int
}

func (l *exprLexer) tokens() ([]token, error) {
	var result []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		result = append(result, tok)
		if tok.kind == tokenEOF {
			return result, nil
		}
	}
}

func (l *exprLexer) next() (token, error) {
	for l.i < len(l.src) && unicode.IsSpace(rune(l.src[l.i])) {
		l.i++
	}
	if l.i >= len(l.src) {
		return token{kind: tokenEOF}, nil
	}

	c := l.src[l.i]
	switch {
	case c == '(':
		l.i++
		return token{kind: tokenLparen}, nil
	case c == ')':
		l.i++
		return token{kind: tokenRparen}, nil
	case c == ',':
		l.i++
		return token{kind: tokenComma}, nil
	case c == '=':
		l.i++
		return token{kind: tokenEq}, nil
	case c == '\'' || c == '"':
		return l.lexString(c)
	case c == '-' || c >= '0' && c <= '9':
		return l.lexNumber()
	case isIdentStart(c):
		start := l.i
		for l.i < len(l.src) && isIdentPart(l.src[l.i]) {
			l.i++
		}
		return token{kind: tokenIdent, val: l.src[start:l.i]}, nil
	default:
		return token{}, fmt.Errorf("Parsing rule %q at %s: unexpected character %q", l.src, l.pos.AsCompactString(), c)
	}
}

func (l *exprLexer) lexString(quote byte) (token, error) {
	l.i++ // opening quote
	var sb strings.Builder
	for l.i < len(l.src) {
		c := l.src[l.i]
		switch c {
		case '\\':
			if l.i+1 >= len(l.src) {
				return token{}, fmt.Errorf("Parsing rule %q at %s: unterminated escape", l.src, l.pos.AsCompactString())
			}
			l.i++
			// Only quotes and backslashes are escapes; anything else
			// keeps its backslash so regex patterns pass through intact.
			if escaped := l.src[l.i]; escaped == quote || escaped == '\\' {
				sb.WriteByte(escaped)
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(escaped)
			}
			l.i++
		case quote:
			l.i++
			return token{kind: tokenString, val: sb.String()}, nil
		default:
			sb.WriteByte(c)
			l.i++
		}
	}
	return token{}, fmt.Errorf("Parsing rule %q at %s: unterminated string", l.src, l.pos.AsCompactString())
}

func (l *exprLexer) lexNumber() (token, error) {
	start := l.i
	if l.src[l.i] == '-' {
		l.i++
	}
	for l.i < len(l.src) && (l.src[l.i] >= '0' && l.src[l.i] <= '9' || l.src[l.i] == '.') {
		l.i++
	}
	return token{kind: tokenNumber, val: l.src[start:l.i]}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

type exprParser struct {
	tokens []token
	src    string
	pos    *filepos.Position
	i      int
}

func (p *exprParser) peek() token { return p.tokens[p.i] }
func (p *exprParser) take() token { tok := p.tokens[p.i]; p.i++; return tok }
func (p *exprParser) atEnd() bool { return p.peek().kind == tokenEOF }

func (p *exprParser) errorf(format string, args ...interface{}) error {
	detail := fmt.Sprintf(format, args...)
	return fmt.Errorf("Parsing rule %q at %s: %s", p.src, p.pos.AsCompactString(), detail)
}

func (p *exprParser) parseCall() (*Expr, error) {
	nameTok := p.take()
	if nameTok.kind != tokenIdent {
		return nil, p.errorf("expected a validator name")
	}

	if p.peek().kind != tokenLparen {
		return nil, p.errorf("expected '(' after %q", nameTok.val)
	}
	p.take()

	expr := &Expr{Name: nameTok.val, Pos: p.pos}

	if p.peek().kind == tokenRparen {
		p.take()
		return expr, nil
	}

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		expr.Args = append(expr.Args, arg)

		switch p.take().kind {
		case tokenComma:
			continue
		case tokenRparen:
			return expr, nil
		default:
			return nil, p.errorf("expected ',' or ')' in arguments of %q", nameTok.val)
		}
	}
}

func (p *exprParser) parseArg() (Arg, error) {
	if p.peek().kind == tokenIdent && p.tokens[p.i+1].kind == tokenEq {
		name := p.take().val
		p.take() // '='
		val, err := p.parseValue()
		if err != nil {
			return Arg{}, err
		}
		return Arg{Name: name, Value: val}, nil
	}

	val, err := p.parseValue()
	if err != nil {
		return Arg{}, err
	}
	return Arg{Value: val}, nil
}

func (p *exprParser) parseValue() (Value, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenString:
		p.take()
		return Value{Scalar: tok.val}, nil

	case tokenNumber:
		p.take()
		if strings.Contains(tok.val, ".") {
			f, err := strconv.ParseFloat(tok.val, 64)
			if err != nil {
				return Value{}, p.errorf("invalid number %q", tok.val)
			}
			return Value{Scalar: f}, nil
		}
		n, err := strconv.ParseInt(tok.val, 10, 64)
		if err != nil {
			return Value{}, p.errorf("invalid number %q", tok.val)
		}
		return Value{Scalar: n}, nil

	case tokenIdent:
		// a call wins over a literal so that null() parses as a validator
		if p.tokens[p.i+1].kind == tokenLparen {
			expr, err := p.parseCall()
			if err != nil {
				return Value{}, err
			}
			return Value{Expr: expr, IsExpr: true}, nil
		}
		switch tok.val {
		case "True", "true":
			p.take()
			return Value{Scalar: true}, nil
		case "False", "false":
			p.take()
			return Value{Scalar: false}, nil
		case "None", "null":
			p.take()
			return Value{Scalar: nil}, nil
		}
		return Value{}, p.errorf("unexpected bare word %q", tok.val)

	default:
		return Value{}, p.errorf("expected an argument value")
	}
}
