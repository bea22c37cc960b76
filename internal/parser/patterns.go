// Pattern parsing for match arms, do-binds, and list-comprehension
// generators. Grounded directly on the sibling mcgru-funxy tree's
// internal/parser/patterns.go, which this workspace has no equivalent
// of at all (the other pattern-aware call sites — expressions_do.go,
// expressions_literals.go's parseCompClause — already assume it).
package parser

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/token"
)

func (p *Parser) parseMatchArm() *ast.MatchArm {
	pattern := p.parsePattern()
	if pattern == nil {
		return nil
	}

	var guard ast.Expression
	if p.peekTokenIs(token.IF) {
		p.nextToken() // consume last token of pattern
		p.nextToken() // consume 'if', move to guard expression
		guard = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(token.ARROW) {
		return nil
	}

	p.nextToken() // consume '->'
	expr := p.parseExpression(LOWEST)

	return &ast.MatchArm{Pattern: pattern, Guard: guard, Expression: expr}
}

func (p *Parser) parsePattern() ast.Pattern {
	if p.curTokenIs(token.IDENT_UPPER) {
		return p.parseConstructorPattern()
	}
	if p.curTokenIs(token.LBRACE) {
		return p.parseRecordPattern()
	}
	if p.curTokenIs(token.CARET) {
		pinTok := p.curToken
		if !p.expectPeek(token.IDENT_LOWER) {
			return nil
		}
		return &ast.PinPattern{Token: pinTok, Name: p.curToken.Literal.(string)}
	}
	return p.parseAtomicPattern()
}

func (p *Parser) parseRecordPattern() ast.Pattern {
	rp := &ast.RecordPattern{Token: p.curToken, Fields: make(map[string]ast.Pattern)}
	p.nextToken() // consume '{'

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}

		if !p.curTokenIs(token.IDENT_LOWER) && !p.curTokenIs(token.IDENT_UPPER) {
			return nil
		}
		key := p.curToken.Literal.(string)

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken() // consume ':'

		valPat := p.parsePattern()
		rp.Fields[key] = valPat

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}

	return rp
}

func (p *Parser) parseAtomicPattern() ast.Pattern {
	switch p.curToken.Type {
	case token.INT:
		return &ast.LiteralPattern{Token: p.curToken, Value: p.curToken.Literal}
	case token.TRUE, token.FALSE:
		return &ast.LiteralPattern{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	case token.STRING:
		str := p.curToken.Literal.(string)
		if parts := parseStringPatternParts(str); parts != nil {
			return &ast.StringPattern{Token: p.curToken, Parts: parts}
		}
		return &ast.LiteralPattern{Token: p.curToken, Value: str}
	case token.CHAR:
		return &ast.LiteralPattern{Token: p.curToken, Value: p.curToken.Literal}
	case token.UNDERSCORE:
		if p.peekTokenIs(token.COLON) {
			nameToken := p.curToken
			p.nextToken() // consume '_'
			p.nextToken() // consume ':'
			typeAst := p.parseTypeApplication()
			return &ast.TypePattern{Token: nameToken, Name: "_", Type: typeAst}
		}
		return &ast.WildcardPattern{Token: p.curToken}
	case token.IDENT_LOWER:
		if p.peekTokenIs(token.COLON) {
			nameToken := p.curToken
			name := p.curToken.Literal.(string)
			p.nextToken() // consume identifier
			p.nextToken() // consume ':'
			typeAst := p.parseTypeApplication()
			return &ast.TypePattern{Token: nameToken, Name: name, Type: typeAst}
		}
		return &ast.IdentifierPattern{Token: p.curToken, Value: p.curToken.Literal.(string)}
	case token.IDENT_UPPER:
		return &ast.ConstructorPattern{
			Token:    p.curToken,
			Name:     &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
			Elements: []ast.Pattern{},
		}
	case token.LPAREN:
		startToken := p.curToken
		p.nextToken()

		if p.curTokenIs(token.RPAREN) {
			return &ast.TuplePattern{Token: startToken, Elements: []ast.Pattern{}}
		}

		pat := p.parsePattern()
		if p.peekTokenIs(token.ELLIPSIS) {
			p.nextToken()
			pat = &ast.SpreadPattern{Token: p.curToken, Pattern: pat}
		}

		if p.peekTokenIs(token.COMMA) {
			elements := []ast.Pattern{pat}
			for p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				nextPat := p.parsePattern()
				if p.peekTokenIs(token.ELLIPSIS) {
					p.nextToken()
					nextPat = &ast.SpreadPattern{Token: p.curToken, Pattern: nextPat}
				}
				elements = append(elements, nextPat)
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			return &ast.TuplePattern{Token: startToken, Elements: elements}
		}

		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return pat

	case token.LBRACKET:
		startToken := p.curToken
		p.nextToken()

		if p.curTokenIs(token.RBRACKET) {
			return &ast.ListPattern{Token: startToken, Elements: []ast.Pattern{}}
		}

		var elements []ast.Pattern
		for {
			pat := p.parsePattern()
			if p.peekTokenIs(token.ELLIPSIS) {
				p.nextToken()
				pat = &ast.SpreadPattern{Token: p.curToken, Pattern: pat}
			}
			elements = append(elements, pat)

			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
			} else {
				break
			}
		}

		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.ListPattern{Token: startToken, Elements: elements}
	default:
		return nil
	}
}

func (p *Parser) parseConstructorPattern() ast.Pattern {
	cp := &ast.ConstructorPattern{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
	}

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // curToken becomes '('

		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return cp
		}

		p.nextToken() // move to first argument
		pat := p.parsePattern()
		cp.Elements = append(cp.Elements, pat)

		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			pat = p.parsePattern()
			cp.Elements = append(cp.Elements, pat)
		}

		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return cp
	}

	// ML-style application: Cons a b, Cons (a, b) c
	for {
		if p.peekTokenIs(token.ARROW) || p.peekTokenIs(token.COMMA) ||
			p.peekTokenIs(token.RPAREN) || p.peekTokenIs(token.RBRACE) ||
			p.peekTokenIs(token.RBRACKET) || p.peekTokenIs(token.EOF) ||
			p.peekTokenIs(token.COLON) {
			break
		}

		tt := p.peekToken.Type
		if tt != token.INT && tt != token.TRUE && tt != token.FALSE &&
			tt != token.STRING && tt != token.CHAR && tt != token.UNDERSCORE &&
			tt != token.IDENT_LOWER && tt != token.IDENT_UPPER &&
			tt != token.LPAREN && tt != token.LBRACKET && tt != token.LBRACE {
			break
		}

		p.nextToken()
		arg := p.parseAtomicPattern()
		if arg == nil {
			break
		}
		cp.Elements = append(cp.Elements, arg)
	}

	return cp
}

// parseStringPatternParts scans a string literal for {name} or
// {name...} capture placeholders. Returns nil when the string has no
// captures, so callers fall back to a plain LiteralPattern.
func parseStringPatternParts(s string) []ast.StringPatternPart {
	var parts []ast.StringPatternPart
	hasCapture := false

	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] != '{' {
			i++
		}

		if i > start {
			parts = append(parts, ast.StringPatternPart{Value: s[start:i]})
		}

		if i >= len(s) || s[i] != '{' {
			continue
		}

		i++ // skip '{'
		nameStart := i
		for i < len(s) && s[i] != '}' {
			i++
		}

		if i >= len(s) {
			parts = append(parts, ast.StringPatternPart{Value: "{" + s[nameStart:]})
			break
		}

		name := s[nameStart:i]
		greedy := false
		if len(name) > 3 && name[len(name)-3:] == "..." {
			name = name[:len(name)-3]
			greedy = true
		}

		if isValidPatternCaptureName(name) {
			parts = append(parts, ast.StringPatternPart{IsCapture: true, Value: name, Greedy: greedy})
			hasCapture = true
		} else {
			parts = append(parts, ast.StringPatternPart{Value: "{" + s[nameStart:i] + "}"})
		}

		i++ // skip '}'
	}

	if !hasCapture {
		return nil
	}
	return parts
}

func isValidPatternCaptureName(s string) bool {
	if len(s) == 0 {
		return false
	}
	if !((s[0] >= 'a' && s[0] <= 'z') || s[0] == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}
