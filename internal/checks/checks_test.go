package checks

import (
	"testing"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

func ident(name string, line, col int) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Lexeme: name, Line: line, Column: col}, Value: name}
}

func strLit(v string, line, col int) *ast.StringLiteral {
	return &ast.StringLiteral{Token: token.Token{Line: line, Column: col}, Value: v}
}

func newModel(index *db.Index, file ids.FileId) *semantic.Model {
	return semantic.New(index, file, &ast.Program{}, "", nil, nil, &compat.Env{}, &members.Env{Members: index.Members, Types: index.Types, Globals: index.Globals})
}

func TestParamTypeCheckFlagsMismatchedArgument(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	fn := typesystem.DocFunction{Fn: typesystem.FunctionType{
		Params: []typesystem.Param{{Name: "x", Type: typesystem.Integer}},
		Return: typesystem.Nil,
	}}
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 1, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "f", DeclaredType: fn})
	index.DeclTrees[file] = tree

	m := newModel(index, file)
	call := &ast.CallExpression{
		Token:     token.Token{Line: 5, Column: 3},
		Function:  ident("f", 5, 1),
		Arguments: []ast.Expression{strLit("hello", 5, 3)},
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: call}}}

	errs := ParamTypeCheck(m, program)
	if len(errs) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(errs))
	}
}

func TestParamTypeCheckAllowsMatchingArgument(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	fn := typesystem.DocFunction{Fn: typesystem.FunctionType{
		Params: []typesystem.Param{{Name: "x", Type: typesystem.String}},
		Return: typesystem.Nil,
	}}
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 1, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "f", DeclaredType: fn})
	index.DeclTrees[file] = tree

	m := newModel(index, file)
	call := &ast.CallExpression{
		Token:     token.Token{Line: 5, Column: 3},
		Function:  ident("f", 5, 1),
		Arguments: []ast.Expression{strLit("hello", 5, 3)},
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: call}}}

	if errs := ParamTypeCheck(m, program); len(errs) != 0 {
		t.Fatalf("want no diagnostics, got %d: %v", len(errs), errs)
	}
}

func TestUndefinedFieldCheckFlagsMissingMember(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	typeId := ids.TypeDeclId("Obj")
	index.Members.Add(&db.Member{
		Id:    ids.MemberId{File: file, SynId: 1},
		File:  file,
		Owner: db.TypeOwner(typeId),
		Key:   typesystem.NameKey("foo"),
		Type:  typesystem.Integer,
	})
	objType := typesystem.Ref{Id: typeId}
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 2, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "obj", DeclaredType: objType})
	index.DeclTrees[file] = tree

	m := newModel(index, file)
	member := &ast.MemberExpression{
		Token:  token.Token{Line: 5, Column: 1},
		Left:   ident("obj", 5, 1),
		Member: &ast.Identifier{Token: token.Token{Line: 5, Column: 5}, Value: "bar"},
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: member}}}

	errs := UndefinedFieldCheck(m, program)
	if len(errs) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(errs))
	}
}

func TestUndefinedFieldCheckAllowsKnownMember(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	typeId := ids.TypeDeclId("Obj")
	index.Members.Add(&db.Member{
		Id:    ids.MemberId{File: file, SynId: 1},
		File:  file,
		Owner: db.TypeOwner(typeId),
		Key:   typesystem.NameKey("foo"),
		Type:  typesystem.Integer,
	})
	objType := typesystem.Ref{Id: typeId}
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 2, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "obj", DeclaredType: objType})
	index.DeclTrees[file] = tree

	m := newModel(index, file)
	member := &ast.MemberExpression{
		Token:  token.Token{Line: 5, Column: 1},
		Left:   ident("obj", 5, 1),
		Member: &ast.Identifier{Token: token.Token{Line: 5, Column: 5}, Value: "foo"},
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: member}}}

	if errs := UndefinedFieldCheck(m, program); len(errs) != 0 {
		t.Fatalf("want no diagnostics, got %d: %v", len(errs), errs)
	}
}

func TestUndefinedFieldCheckIgnoresUnknownBase(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	m := newModel(index, file)
	member := &ast.MemberExpression{
		Token:  token.Token{Line: 5, Column: 1},
		Left:   ident("obj", 5, 1),
		Member: &ast.Identifier{Token: token.Token{Line: 5, Column: 5}, Value: "bar"},
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: member}}}

	if errs := UndefinedFieldCheck(m, program); len(errs) != 0 {
		t.Fatalf("want no diagnostics on an Unknown base, got %d", len(errs))
	}
}

func TestTypeNotMatchCheckFlagsMismatchedAssignment(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 1, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "x", DeclaredType: typesystem.Integer})
	index.DeclTrees[file] = tree

	m := newModel(index, file)
	assign := &ast.AssignExpression{
		Token: token.Token{Line: 5, Column: 1},
		Left:  ident("x", 5, 1),
		Value: strLit("oops", 5, 3),
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: assign}}}

	errs := TypeNotMatchCheck(m, program)
	if len(errs) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(errs))
	}
}

func TestRunDedupesAndSorts(t *testing.T) {
	index := db.New()
	file := ids.FileId(1)
	fileRange := ids.TextRange{Start: ids.Position{Line: 1, Column: 1}, End: ids.Position{Line: 100, Column: 1}}
	tree := db.NewDeclTree(file, fileRange)
	declId := ids.DeclId{File: file, Pos: ids.Position{Line: 1, Column: 1}}
	tree.AddDecl(tree.Root, &db.Decl{Id: declId, Name: "x", DeclaredType: typesystem.Integer})
	index.DeclTrees[file] = tree

	m := newModel(index, file)
	assign := &ast.AssignExpression{
		Token: token.Token{Line: 2, Column: 1},
		Left:  ident("x", 2, 1),
		Value: strLit("oops", 2, 3),
	}
	program := &ast.Program{Statements: []ast.Statement{&ast.ExpressionStatement{Expression: assign}}}

	errs := Run(m, program, []Check{TypeNotMatchCheck, TypeNotMatchCheck})
	if len(errs) != 1 {
		t.Fatalf("want the duplicate collapsed to 1 diagnostic, got %d", len(errs))
	}
}
