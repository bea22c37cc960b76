package main

import (
	"log"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/semantic"
)

// handleDefinition implements spec.md §6's `definition` request on top
// of `semantic.Model.GetSemanticInfo` (spec.md §4.10 get_semantic_info):
// resolve the identifier under the cursor to a SemanticDeclId, then map
// that id to a source location. Each per-document Model only indexes
// its own file (spec.md §5's per-file analysis model), so a decl that
// resolves to a different file than the one open can't be located here
// and is reported as "no definition" rather than guessed at.
func (s *LanguageServer) handleDefinition(id interface{}, params DefinitionParams) error {
	log.Printf("Handling definition request for %s at line %d, char %d", params.TextDocument.URI, params.Position.Line, params.Position.Character)

	s.mu.RLock()
	docState, exists := s.documents[params.TextDocument.URI]
	s.mu.RUnlock()

	if !exists {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	docState.Mu.RLock()
	model := docState.Model
	docState.Mu.RUnlock()

	if model == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	path := FindNodePath(model.Root, params.Position.Line+1, params.Position.Character+1)
	if len(path) == 0 {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	var expr ast.Expression
	for i := len(path) - 1; i >= 0; i-- {
		if e, ok := path[i].(ast.Expression); ok {
			expr = e
			break
		}
	}
	if expr == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	info := model.GetSemanticInfo(expr)
	if info.SemanticDecl == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	loc, ok := s.declLocation(model, params.TextDocument.URI, *info.SemanticDecl)
	if !ok {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: loc})
}

// declLocation maps a db.SemanticDeclId to an LSP Location within the
// currently-open file, when that decl is anchored to a position this
// package tracks (SemDecl/SemSignature carry an exact position;
// SemMember carries the member's text range; SemTypeDecl only records
// which file declared it, with no exact position, so it falls back to
// the start of that file).
func (s *LanguageServer) declLocation(model *semantic.Model, uri string, decl db.SemanticDeclId) (Location, bool) {
	switch decl.Kind {
	case db.SemDecl:
		if decl.Decl.File != model.File {
			return Location{}, false
		}
		return pointLocation(uri, decl.Decl.Pos.Line, decl.Decl.Pos.Column), true

	case db.SemSignature:
		if decl.Signature.File != model.File {
			return Location{}, false
		}
		return pointLocation(uri, decl.Signature.Pos.Line, decl.Signature.Pos.Column), true

	case db.SemMember:
		mem, ok := model.Index.Members.Get(decl.Member)
		if !ok || mem.File != model.File {
			return Location{}, false
		}
		return Location{
			URI: uri,
			Range: Range{
				Start: Position{Line: mem.Range.Start.Line - 1, Character: mem.Range.Start.Column - 1},
				End:   Position{Line: mem.Range.End.Line - 1, Character: mem.Range.End.Column - 1},
			},
		}, true

	case db.SemTypeDecl:
		file, ok := model.Index.Types.DeclFile(decl.TypeDecl)
		if !ok || file != model.File {
			return Location{}, false
		}
		return pointLocation(uri, 1, 1), true
	}
	return Location{}, false
}

func pointLocation(uri string, line, col int) Location {
	pos := Position{Line: line - 1, Character: col - 1}
	return Location{URI: uri, Range: Range{Start: pos, End: pos}}
}
