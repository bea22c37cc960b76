package semantic

import (
	"testing"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

func ident(name string, line, col int) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Lexeme: name, Line: line, Column: col}, Value: name}
}

func intLit(v int64) *ast.IntegerLiteral { return &ast.IntegerLiteral{Value: v} }

func TestModelInferExprLiteral(t *testing.T) {
	index := db.New()
	m := New(index, ids.FileId(1), &ast.Program{}, "", nil, nil, nil, nil)

	got := m.InferExpr(intLit(5))
	if !typesystem.Equal(got, typesystem.IntConst{Value: 5}) {
		t.Fatalf("want IntConst(5), got %s", got.String())
	}
}

func TestModelGetSemanticInfoResolvesLocalDecl(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 1, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "x", DeclaredType: typesystem.Integer})
	index.DeclTrees[file] = tree

	m := New(index, file, &ast.Program{}, "", nil, nil, nil, nil)
	info := m.GetSemanticInfo(ident("x", 5, 1))

	if !typesystem.Equal(info.Type, typesystem.Integer) {
		t.Fatalf("want Integer, got %s", info.Type.String())
	}
	if info.SemanticDecl == nil || info.SemanticDecl.Kind != db.SemDecl || info.SemanticDecl.Decl != declId {
		t.Fatalf("want resolved decl %v, got %+v", declId, info.SemanticDecl)
	}
}

func TestModelGetSemanticInfoUnresolvedIdentifierHasNoDecl(t *testing.T) {
	index := db.New()
	m := New(index, ids.FileId(1), &ast.Program{}, "", nil, nil, nil, nil)

	info := m.GetSemanticInfo(ident("undefined", 1, 1))
	if info.SemanticDecl != nil {
		t.Fatalf("want nil decl for an unresolved name, got %+v", info.SemanticDecl)
	}
}

func TestModelGetDocumentAndRoot(t *testing.T) {
	index := db.New()
	root := &ast.Program{File: "a.fx"}
	m := New(index, ids.FileId(1), root, "source text", nil, nil, nil, nil)

	if m.GetDocument() != "source text" {
		t.Fatalf("want source text, got %q", m.GetDocument())
	}
	if m.GetRoot() != root {
		t.Fatalf("want the same root pointer back")
	}
}
