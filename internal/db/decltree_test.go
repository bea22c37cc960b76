package db_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

func pos(line, col int) ids.Position { return ids.Position{Line: line, Column: col} }
func span(sl, sc, el, ec int) ids.TextRange {
	return ids.TextRange{Start: pos(sl, sc), End: pos(el, ec)}
}

// spec.md §3.2 "LocalOrAssign: skip to parent" — `local x = x` on the
// RHS must not see the new x; it resolves to an outer x instead.
func TestFindLocalDeclLocalOrAssignSkipsToParent(t *testing.T) {
	file := ids.FileId(1)
	tree := db.NewDeclTree(file, span(0, 0, 10, 0))
	outer := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(0, 0)}, Name: "x"}
	tree.AddDecl(tree.Root, outer)

	assignScope := tree.AddScope(tree.Root, db.ScopeLocalOrAssign, span(1, 0, 1, 20))
	inner := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(1, 10)}, Name: "x"}
	tree.AddDecl(assignScope, inner)

	// the RHS sits inside assignScope, at a position before inner's own decl.
	got, ok := tree.FindLocalDecl("x", pos(1, 8))
	if !ok {
		t.Fatal("expected to resolve x to the outer decl")
	}
	if got != outer {
		t.Fatalf("expected outer decl (pos %s), got pos %s", outer.Id.Pos, got.Id.Pos)
	}
}

// spec.md §3.2 "ForRange at level 0: skip to parent (loop variables are
// scoped to the body only)."
func TestFindLocalDeclForRangeVariablesNotVisibleInRangeExpr(t *testing.T) {
	file := ids.FileId(1)
	tree := db.NewDeclTree(file, span(0, 0, 10, 0))
	forScope := tree.AddScope(tree.Root, db.ScopeForRange, span(1, 0, 3, 0))
	loopVar := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(1, 5)}, Name: "i"}
	tree.AddDecl(forScope, loopVar)

	// querying "i" at the loop header itself (level 0 is forScope) must not
	// see the loop variable declared in that same scope.
	if _, ok := tree.FindLocalDecl("i", pos(1, 5)); ok {
		t.Fatal("loop variable must not be visible in its own range expression")
	}
}

func TestFindLocalDeclForRangeVariablesVisibleInBody(t *testing.T) {
	file := ids.FileId(1)
	tree := db.NewDeclTree(file, span(0, 0, 10, 0))
	forScope := tree.AddScope(tree.Root, db.ScopeForRange, span(1, 0, 3, 0))
	loopVar := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(1, 5)}, Name: "i"}
	tree.AddDecl(forScope, loopVar)
	body := tree.AddScope(forScope, db.ScopeBlock, span(2, 0, 2, 20))

	got, ok := tree.FindLocalDecl("i", pos(2, 10))
	if !ok || got != loopVar {
		t.Fatal("loop variable must be visible inside the loop body")
	}
}

// spec.md §3.2 "Repeat at level 0: descend into the until body so
// locals are visible there" — unlike ForRange/LocalOrAssign, Repeat does
// NOT hide its own level-0 locals.
func TestFindLocalDeclRepeatLocalsVisibleInUntil(t *testing.T) {
	file := ids.FileId(1)
	tree := db.NewDeclTree(file, span(0, 0, 10, 0))
	repeatScope := tree.AddScope(tree.Root, db.ScopeRepeat, span(1, 0, 5, 0))
	local := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(2, 5)}, Name: "done"}
	tree.AddDecl(repeatScope, local)

	// the until-condition's position sits directly in repeatScope (level 0).
	got, ok := tree.FindLocalDecl("done", pos(4, 0))
	if !ok || got != local {
		t.Fatal("repeat-loop locals must be visible in the until condition")
	}
}

// spec.md §3.2 "Method scope suppresses resolution of the literal name
// self (forces lookup of the enclosing method's receiver)."
func TestFindLocalDeclSelfSuppressedInMethodScope(t *testing.T) {
	file := ids.FileId(1)
	tree := db.NewDeclTree(file, span(0, 0, 10, 0))
	recv := typesystem.Ref{Id: ids.TypeDeclId("Widget")}
	methodScope := tree.AddScope(tree.Root, db.ScopeMethod, span(1, 0, 5, 0))
	methodScope.MethodReceiver = recv
	// a decl literally named "self" must never be returned by FindLocalDecl.
	tree.AddDecl(methodScope, &db.Decl{Id: ids.DeclId{File: file, Pos: pos(1, 1)}, Name: "self"})

	if _, ok := tree.FindLocalDecl("self", pos(2, 0)); ok {
		t.Fatal("self must never resolve through the decl tree")
	}
	got, ok := tree.IsSelfInMethod(pos(2, 0))
	if !ok || !typesystem.Equal(got, recv) {
		t.Fatalf("expected self to resolve to the method receiver %s, got %v", recv, got)
	}
}

// spec.md §3.2 shadowing: the nearest preceding decl of the same name
// wins within a scope.
func TestFindLocalDeclShadowingWithinScope(t *testing.T) {
	file := ids.FileId(1)
	tree := db.NewDeclTree(file, span(0, 0, 10, 0))
	first := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(1, 0)}, Name: "x"}
	second := &db.Decl{Id: ids.DeclId{File: file, Pos: pos(2, 0)}, Name: "x"}
	tree.AddDecl(tree.Root, first)
	tree.AddDecl(tree.Root, second)

	got, ok := tree.FindLocalDecl("x", pos(3, 0))
	if !ok || got != second {
		t.Fatal("expected the later shadowing decl to win")
	}
	got, ok = tree.FindLocalDecl("x", pos(1, 5))
	if !ok || got != first {
		t.Fatal("expected the first decl to resolve before the second is declared")
	}
}
