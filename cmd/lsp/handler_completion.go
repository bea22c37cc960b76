package main

import (
	"log"
	"sort"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

func (s *LanguageServer) handleCompletion(id interface{}, params CompletionParams) error {
	log.Printf("Handling completion request for %s at line %d, char %d", params.TextDocument.URI, params.Position.Line, params.Position.Character)

	s.mu.RLock()
	docState, exists := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !exists {
		return s.sendResponse(ResponseMessage{
			Jsonrpc: "2.0",
			ID:      id,
			Result:  CompletionList{IsIncomplete: false, Items: []CompletionItem{}},
		})
	}

	docState.Mu.RLock()
	model := docState.Model
	docState.Mu.RUnlock()

	if model == nil {
		return s.sendResponse(ResponseMessage{
			Jsonrpc: "2.0",
			ID:      id,
			Result:  CompletionList{IsIncomplete: false, Items: []CompletionItem{}},
		})
	}

	items := s.getCompletionItems(model, params.Position)

	return s.sendResponse(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result: CompletionList{
			IsIncomplete: false,
			Items:        items,
		},
	})
}

// getCompletionItems collects keywords, locals visible from the cursor
// path, workspace globals and declared nominal types (spec.md §6
// `completion` request; spec.md §4.9/§4.10 supply the member/type data
// a richer member-access completion would extend this with).
func (s *LanguageServer) getCompletionItems(model *semantic.Model, position Position) []CompletionItem {
	var items []CompletionItem
	seen := make(map[string]bool)

	addSymbol := func(name string, kind CompletionItemKind, detail string) {
		if name == "" || seen[name] {
			return
		}
		items = append(items, CompletionItem{Label: name, Kind: kind, Detail: detail})
		seen[name] = true
	}

	for keyword := range token.Keywords {
		addSymbol(keyword, CompletionItemKeyword, "")
	}

	line := position.Line + 1
	char := position.Character + 1
	path := FindNodePath(model.Root, line, char)

	for _, node := range path {
		switch n := node.(type) {
		case *ast.FunctionStatement:
			for _, param := range n.Parameters {
				if param.Name != nil {
					addSymbol(param.Name.Value, CompletionItemVariable, "parameter")
				}
			}
		case *ast.BlockStatement:
			for _, stmt := range n.Statements {
				stmtToken := stmt.GetToken()
				if stmtToken.Line < line || (stmtToken.Line == line && stmtToken.Column < char) {
					if decl, ok := stmt.(*ast.ConstantDeclaration); ok && decl.Name != nil {
						addSymbol(decl.Name.Value, CompletionItemVariable, "local constant")
					}
					if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok {
						if assign, ok := exprStmt.Expression.(*ast.AssignExpression); ok {
							if ident, ok := assign.Left.(*ast.Identifier); ok {
								addSymbol(ident.Value, CompletionItemVariable, "local variable")
							}
						}
					}
				}
			}
		}
	}

	for _, name := range model.Index.Globals.Names() {
		addSymbol(name, CompletionItemVariable, "global")
	}

	typeIds := make([]ids.TypeDeclId, 0, len(model.Index.Types.Names))
	for id := range model.Index.Types.Names {
		typeIds = append(typeIds, id)
	}
	sort.Slice(typeIds, func(i, j int) bool { return typeIds[i] < typeIds[j] })
	for _, id := range typeIds {
		kind := CompletionItemClass
		if model.Index.Types.Kinds[id] == db.TypeKindEnum {
			kind = CompletionItemEnum
		}
		addSymbol(model.Index.Types.Names[id], kind, typeDeclDetail(model, id))
	}

	return items
}

func typeDeclDetail(model *semantic.Model, id ids.TypeDeclId) string {
	if origin, ok := model.Index.Types.IsAlias(id); ok {
		return "alias of " + typesystem.Humanize(origin)
	}
	return ""
}
