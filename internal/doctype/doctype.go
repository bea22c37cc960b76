// Package doctype is a minimal parser for the doc-expressible subset of
// the type universe's rendered form (spec.md §8's "Round-trips":
// "humanize(type) ∘ parse_doc_type is a left identity for doc-expressible
// types"). It is deliberately narrow — nominal refs, unions, arrays,
// nullable, tuples, function types and generics, the forms
// internal/typesystem's String() methods actually produce — not a
// general `---@` doc-tag parser (that parser feeds the db and is out of
// scope per spec.md §1).
package doctype

import (
	"fmt"
	"strings"

	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

var primByName = map[string]typesystem.Type{
	"unknown":  typesystem.Unknown,
	"any":      typesystem.Any,
	"nil":      typesystem.Nil,
	"table":    typesystem.TableType,
	"userdata": typesystem.Userdata,
	"function": typesystem.Function,
	"thread":   typesystem.Thread,
	"boolean":  typesystem.Boolean,
	"string":   typesystem.String,
	"integer":  typesystem.Integer,
	"number":   typesystem.Number,
	"io":       typesystem.Io,
	"self":     typesystem.SelfInfer,
	"global":   typesystem.GlobalType,
}

type tokenKind uint8

const (
	tkEOF tokenKind = iota
	tkIdent
	tkLParen
	tkRParen
	tkLBracket
	tkRBracket
	tkLBracketPair // "[]"
	tkLAngle
	tkRAngle
	tkComma
	tkColon
	tkQuestion
	tkPipe
	tkDotDotDot
)

type token struct {
	kind tokenKind
	text string
}

type lexer struct {
	src []rune
	pos int
}

func newLexer(s string) *lexer { return &lexer{src: []rune(s)} }

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n') {
		l.pos++
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (l *lexer) next() token {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tkEOF}
	}
	r := l.src[l.pos]
	switch r {
	case '(':
		l.pos++
		return token{kind: tkLParen}
	case ')':
		l.pos++
		return token{kind: tkRParen}
	case '[':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == ']' {
			l.pos += 2
			return token{kind: tkLBracketPair}
		}
		l.pos++
		return token{kind: tkLBracket}
	case ']':
		l.pos++
		return token{kind: tkRBracket}
	case '<':
		l.pos++
		return token{kind: tkLAngle}
	case '>':
		l.pos++
		return token{kind: tkRAngle}
	case ',':
		l.pos++
		return token{kind: tkComma}
	case ':':
		l.pos++
		return token{kind: tkColon}
	case '?':
		l.pos++
		return token{kind: tkQuestion}
	case '|':
		l.pos++
		return token{kind: tkPipe}
	case '.':
		if l.pos+2 < len(l.src) && l.src[l.pos+1] == '.' && l.src[l.pos+2] == '.' {
			l.pos += 3
			return token{kind: tkDotDotDot}
		}
	}
	if isIdentRune(r) {
		start := l.pos
		for l.pos < len(l.src) && isIdentRune(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tkIdent, text: string(l.src[start:l.pos])}
	}
	// unrecognized rune: skip it rather than erroring the whole parse, so
	// a surrounding form we don't model yet (Object's "{ ... }", Extends'
	// "extends") doesn't take down the tokenizer.
	l.pos++
	return l.next()
}

type parser struct {
	lx   *lexer
	cur  token
	peek token
}

func newParser(s string) *parser {
	p := &parser{lx: newLexer(s)}
	p.cur = p.lx.next()
	p.peek = p.lx.next()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lx.next()
}

// Parse parses s (as produced by typesystem.Humanize) back into a Type.
// Returns an error if s isn't one of the doc-expressible forms this
// package models.
func Parse(s string) (typesystem.Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("doctype: empty type string")
	}
	p := newParser(s)
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tkEOF {
		return nil, fmt.Errorf("doctype: unexpected trailing token at %q", s)
	}
	return t, nil
}

func (p *parser) parseUnion() (typesystem.Type, error) {
	first, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tkPipe {
		return first, nil
	}
	parts := []typesystem.Type{first}
	for p.cur.kind == tkPipe {
		p.advance()
		next, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	return typesystem.NormalizeUnion(parts), nil
}

// parsePostfix handles the two postfix operators ("[]" -> Array, "?" ->
// Nullable), which stack left to right as in "string[]?" (nullable array
// of string) or "string?[]" (array of nullable string).
func (p *parser) parsePostfix() (typesystem.Type, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.kind {
		case tkLBracketPair:
			p.advance()
			t = typesystem.Array{Elem: t}
		case tkQuestion:
			p.advance()
			t = typesystem.NewNullable(t)
		default:
			return t, nil
		}
	}
}

func (p *parser) parsePrimary() (typesystem.Type, error) {
	switch p.cur.kind {
	case tkIdent:
		name := p.cur.text
		if name == "fun" && p.peek.kind == tkLParen {
			p.advance()
			return p.parseFunctionType()
		}
		p.advance()
		if p.cur.kind == tkLAngle {
			return p.parseGenericTail(name)
		}
		if prim, ok := primByName[name]; ok {
			return prim, nil
		}
		return typesystem.Ref{Id: ids.TypeDeclId(name)}, nil

	case tkLBracket:
		return p.parseTuple()

	case tkLBracketPair:
		// an empty tuple "[]" lexes as one paired token, indistinguishable
		// at the lexer level from the array postfix operator; as a primary
		// (nothing precedes it to apply "[]" to) it can only be the empty
		// tuple.
		p.advance()
		return typesystem.Tuple{}, nil

	default:
		return nil, fmt.Errorf("doctype: unexpected token parsing type (kind=%d, text=%q)", p.cur.kind, p.cur.text)
	}
}

func (p *parser) parseGenericTail(name string) (typesystem.Type, error) {
	p.advance() // consume '<'
	var params []typesystem.Type
	for p.cur.kind != tkRAngle {
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		if p.cur.kind == tkComma {
			p.advance()
			continue
		}
		break
	}
	if p.cur.kind != tkRAngle {
		return nil, fmt.Errorf("doctype: expected '>' closing %q", name)
	}
	p.advance()
	if name == "table" && len(params) == 2 {
		return typesystem.TableGeneric{Entries: params}, nil
	}
	return typesystem.Generic{Base: ids.TypeDeclId(name), Params: params}, nil
}

func (p *parser) parseTuple() (typesystem.Type, error) {
	p.advance() // consume '['
	var elems []typesystem.Type
	for p.cur.kind != tkRBracket {
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		if p.cur.kind == tkComma {
			p.advance()
			continue
		}
		break
	}
	if p.cur.kind != tkRBracket {
		return nil, fmt.Errorf("doctype: expected ']' closing tuple")
	}
	p.advance()
	return typesystem.Tuple{Elems: elems}, nil
}

func (p *parser) parseFunctionType() (typesystem.Type, error) {
	p.advance() // consume '('
	fn := typesystem.FunctionType{}
	for p.cur.kind != tkRParen {
		if p.cur.kind == tkDotDotDot {
			p.advance()
			fn.IsVariadic = true
			t, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			fn.VariadicType = t
			break
		}
		if p.cur.kind != tkIdent {
			return nil, fmt.Errorf("doctype: expected parameter name in fun(...)")
		}
		pname := p.cur.text
		p.advance()
		optional := false
		if p.cur.kind == tkQuestion {
			optional = true
			p.advance()
		}
		if p.cur.kind != tkColon {
			return nil, fmt.Errorf("doctype: expected ':' after parameter %q", pname)
		}
		p.advance()
		ptype, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, typesystem.Param{Name: pname, Type: ptype, Optional: optional})
		if p.cur.kind == tkComma {
			p.advance()
			continue
		}
		break
	}
	if p.cur.kind != tkRParen {
		return nil, fmt.Errorf("doctype: expected ')' closing fun(...)")
	}
	p.advance()
	if p.cur.kind != tkColon {
		return nil, fmt.Errorf("doctype: expected ':' before fun(...) return type")
	}
	p.advance()
	ret, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	fn.Return = ret
	return typesystem.DocFunction{Fn: fn}, nil
}
