package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/funvibe/funxy/internal/ast"
)

func (s *LanguageServer) handleHover(id interface{}, params HoverParams) error {
	log.Printf("Handling hover request for %s at line %d, char %d", params.TextDocument.URI, params.Position.Line, params.Position.Character)

	s.mu.RLock()
	docState, exists := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !exists {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	docState.Mu.RLock()
	content := docState.Content
	model := docState.Model
	docState.Mu.RUnlock()

	if model == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	if isInsideComment(content, params.Position.Line, params.Position.Character) {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	path := FindNodePath(model.Root, params.Position.Line+1, params.Position.Character+1)
	var node ast.Node
	if len(path) > 0 {
		node = path[len(path)-1]
	}

	if node == nil {
		// Heuristic: cursor on or just after a closing bracket resolves to
		// whatever node opened it (mirrors a hover request landing on the
		// ')' of a call rather than inside its arguments).
		byteOffset := 0
		lines := strings.Split(content, "\n")
		for i := 0; i < params.Position.Line; i++ {
			if i < len(lines) {
				byteOffset += len(lines[i]) + 1
			}
		}
		byteOffset += params.Position.Character

		targetPos := -1
		if byteOffset < len(content) {
			if b := content[byteOffset]; b == ')' || b == ']' || b == '}' {
				targetPos = byteOffset
			}
		}
		if targetPos == -1 && byteOffset > 0 && byteOffset-1 < len(content) {
			if b := content[byteOffset-1]; b == ')' || b == ']' || b == '}' {
				targetPos = byteOffset - 1
			}
		}

		if targetPos != -1 {
			if openerPos := findMatchingOpener(content, targetPos); openerPos != -1 {
				openerLine, openerChar, currentOffset := 0, 0, 0
				for i, lineStr := range lines {
					lineLen := len(lineStr) + 1
					if currentOffset+lineLen > openerPos {
						openerLine = i
						openerChar = openerPos - currentOffset
						break
					}
					currentOffset += lineLen
				}
				node = FindNodeAt(model.Root, openerLine+1, openerChar+1)
			}
		}
	}

	if node == nil {
		word := getWordAtPosition(content, params.Position.Line, params.Position.Character)
		if word != "" {
			if kw := getKeywordHoverText(word, nil); kw != "" {
				return s.sendResponse(ResponseMessage{
					Jsonrpc: "2.0", ID: id,
					Result: &Hover{Contents: MarkupContent{Kind: "markdown", Value: kw}},
				})
			}
		}
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	// Hovering on the closing paren of a call shows the call's own type
	// (its return type) rather than whatever argument the path ended on.
	if len(path) >= 2 {
		if callExpr, ok := path[len(path)-2].(*ast.CallExpression); ok && onClosingParen(content, params.Position) {
			node = callExpr
		}
	}

	switch node.(type) {
	case *ast.Program, *ast.BlockStatement:
		word := getWordAtPosition(content, params.Position.Line, params.Position.Character)
		if word != "" {
			if kw := getKeywordHoverText(word, node); kw != "" {
				return s.sendResponse(ResponseMessage{
					Jsonrpc: "2.0", ID: id,
					Result: &Hover{Contents: MarkupContent{Kind: "markdown", Value: kw}},
				})
			}
		}
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	// Hovering on '(' of a call shows the callee's signature, not the
	// call's return type.
	if callExpr, ok := node.(*ast.CallExpression); ok {
		parenLine := callExpr.Token.Line - 1
		parenCol := callExpr.Token.Column - 1
		if params.Position.Line == parenLine && params.Position.Character == parenCol {
			node = callExpr.Function
		}
	}

	var hoverText string

	switch n := node.(type) {
	case *ast.Identifier:
		info := model.GetSemanticInfo(n)
		hoverText = fmt.Sprintf("```funxy\n%s: %s\n```", n.Value, PrettifyType(info.Type))
	case *ast.IdentifierPattern:
		hoverText = fmt.Sprintf("```funxy\n%s\n```", n.Value)
	case *ast.TypePattern:
		hoverText = fmt.Sprintf("```funxy\n%s\n```", n.Name)
	case ast.Expression:
		if t := model.InferExpr(n); t != nil {
			hoverText = fmt.Sprintf("```funxy\n%s\n```", PrettifyType(t))
		}
	}

	if hoverText == "" {
		word := getWordAtPosition(content, params.Position.Line, params.Position.Character)
		if word != "" {
			hoverText = getKeywordHoverText(word, node)
		}
	}

	if hoverText == "" {
		switch node.(type) {
		case *ast.Identifier:
			hoverText = "```funxy\nidentifier\n```"
		case *ast.StringLiteral:
			hoverText = "```funxy\nString\n```"
		case *ast.IntegerLiteral:
			hoverText = "```funxy\nInt\n```"
		case *ast.FloatLiteral:
			hoverText = "```funxy\nFloat\n```"
		case *ast.BooleanLiteral:
			hoverText = "```funxy\nBool\n```"
		case *ast.TupleLiteral:
			hoverText = "```funxy\nTuple\n```"
		case *ast.ListLiteral:
			hoverText = "```funxy\nList\n```"
		case *ast.MapLiteral:
			hoverText = "```funxy\nMap\n```"
		case *ast.RecordLiteral:
			hoverText = "```funxy\nRecord\n```"
		case *ast.FunctionLiteral:
			hoverText = "```funxy\nFunction\n```"
		case *ast.CallExpression:
			hoverText = "```funxy\nCall\n```"
		case *ast.MemberExpression:
			hoverText = "```funxy\nField Access\n```"
		case *ast.IndexExpression:
			hoverText = "```funxy\nIndex\n```"
		default:
			hoverText = fmt.Sprintf("```funxy\n%T\n```", node)
		}
	}

	return s.sendResponse(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result: Hover{
			Contents: MarkupContent{Kind: "markdown", Value: hoverText},
		},
	})
}

// onClosingParen reports whether pos sits on, or just after, a ')'
// character on its own line within content.
func onClosingParen(content string, pos Position) bool {
	line := getLine(content, pos.Line)
	if pos.Character < len(line) && line[pos.Character] == ')' {
		return true
	}
	if pos.Character > 0 && pos.Character-1 < len(line) && line[pos.Character-1] == ')' {
		return true
	}
	return false
}

func getKeywordHoverText(word string, node ast.Node) string {
	isContainer := false
	if node == nil {
		isContainer = true
	} else {
		switch node.(type) {
		case *ast.BlockStatement, *ast.Program:
			isContainer = true
		}
	}

	switch word {
	case "package":
		if _, ok := node.(*ast.PackageDeclaration); ok || isContainer {
			return "Keyword: package"
		}
	case "import":
		if _, ok := node.(*ast.ImportStatement); ok || isContainer {
			return "Keyword: import"
		}
	case "as":
		if _, ok := node.(*ast.ImportStatement); ok || isContainer {
			return "Keyword: as"
		}
	case "match":
		if _, ok := node.(*ast.MatchExpression); ok || isContainer {
			return "Keyword: match"
		}
	case "if":
		if _, ok := node.(*ast.IfExpression); ok || isContainer {
			return "Keyword: if"
		}
	case "else":
		if _, ok := node.(*ast.IfExpression); ok || isContainer {
			return "Keyword: else"
		}
	case "fun":
		if _, ok := node.(*ast.FunctionStatement); ok {
			return "Keyword: fun"
		}
		if _, ok := node.(*ast.FunctionLiteral); ok {
			return "Keyword: fun"
		}
		if isContainer {
			return "Keyword: fun"
		}
	case "type":
		if _, ok := node.(*ast.TypeDeclarationStatement); ok || isContainer {
			return "Keyword: type"
		}
	case "trait":
		if _, ok := node.(*ast.TraitDeclaration); ok || isContainer {
			return "Keyword: trait"
		}
	case "instance":
		if _, ok := node.(*ast.InstanceDeclaration); ok || isContainer {
			return "Keyword: instance"
		}
	case "return":
		if _, ok := node.(*ast.ReturnStatement); ok || isContainer {
			return "Keyword: return"
		}
	case "break":
		if _, ok := node.(*ast.BreakStatement); ok || isContainer {
			return "Keyword: break"
		}
	case "continue":
		if _, ok := node.(*ast.ContinueStatement); ok || isContainer {
			return "Keyword: continue"
		}
	case "for":
		if _, ok := node.(*ast.ForExpression); ok || isContainer {
			return "Keyword: for"
		}
	case "while":
		if _, ok := node.(*ast.ForExpression); ok || isContainer {
			return "Keyword: while"
		}
	case "directive":
		if _, ok := node.(*ast.DirectiveStatement); ok || isContainer {
			return "Keyword: directive"
		}
	case "alias":
		return "Keyword: alias"
	case "operator":
		if _, ok := node.(*ast.FunctionStatement); ok || isContainer {
			return "Keyword: operator"
		}
		if fn, ok := node.(*ast.FunctionStatement); ok && fn.Operator != "" {
			return "Keyword: operator"
		}
	case "in":
		if _, ok := node.(*ast.ForExpression); ok || isContainer {
			return "Keyword: in"
		}
		if _, ok := node.(*ast.Identifier); ok {
			return "Keyword: in"
		}
	case "_":
		if _, ok := node.(*ast.Identifier); ok || isContainer {
			return "Keyword: _"
		}
		if _, ok := node.(ast.Pattern); ok {
			return "Keyword: _"
		}
		return "Keyword: _"
	case "do":
		return "Keyword: do"
	case "const":
		return "Keyword: const"
	case "forall":
		return "Keyword: forall"
	}
	return ""
}
