package flow

import (
	"testing"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/synid"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

func declaredEnv(declared typesystem.Type) *Env {
	return &Env{
		Cache:    infercache.New(),
		Declared: func(infercache.VarRefId) typesystem.Type { return declared },
		RefOf: func(e ast.Expression) (infercache.VarRefId, bool) {
			if id, ok := e.(*ast.Identifier); ok {
				return infercache.VarRefId{Kind: infercache.VarRefName, Name: id.Value}, true
			}
			return infercache.VarRefId{}, false
		},
	}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: token.Token{Lexeme: name}, Value: name}
}

func TestGetTypeAtFlowTruthinessNarrowing(t *testing.T) {
	declared := typesystem.NewNullable(typesystem.String)
	env := declaredEnv(declared)
	ref := infercache.VarRefId{Kind: infercache.VarRefName, Name: "x"}

	tree, start := New()
	trueNode := tree.newNode(TrueCondition, start)
	trueNode.Cond = ident("x")

	got := GetTypeAtFlow(ref, trueNode, env)
	if !typesystem.Equal(got, typesystem.String) {
		t.Fatalf("true branch: want String, got %s", got.String())
	}

	falseNode := tree.newNode(FalseCondition, start)
	falseNode.Cond = ident("x")
	got = GetTypeAtFlow(ref, falseNode, env)
	if !typesystem.Equal(got, typesystem.Nil) {
		t.Fatalf("false branch: want Nil, got %s", got.String())
	}
}

func TestGetTypeAtFlowAssignmentNarrowsByRHS(t *testing.T) {
	env := declaredEnv(typesystem.Unknown)
	env.InferExpr = func(ast.Expression) typesystem.Type { return typesystem.IntConst{Value: 7} }
	ref := infercache.VarRefId{Kind: infercache.VarRefName, Name: "x"}

	tree, start := New()
	assign := tree.newNode(Assignment, start)
	assign.VarRef = ref
	assign.AssignValue = ident("unused")
	assign.AssignCount = 1

	got := GetTypeAtFlow(ref, assign, env)
	if !typesystem.Equal(got, typesystem.IntConst{Value: 7}) {
		t.Fatalf("want IntConst(7), got %s", got.String())
	}
}

func TestGetTypeAtFlowBranchJoinUnions(t *testing.T) {
	env := declaredEnv(typesystem.Unknown)
	env.InferExpr = func(e ast.Expression) typesystem.Type {
		if id, ok := e.(*ast.Identifier); ok && id.Value == "str" {
			return typesystem.String
		}
		return typesystem.Integer
	}
	ref := infercache.VarRefId{Kind: infercache.VarRefName, Name: "x"}

	tree, start := New()
	left := tree.newNode(Assignment, start)
	left.VarRef = ref
	left.AssignValue = ident("str")
	left.AssignCount = 1

	right := tree.newNode(Assignment, start)
	right.VarRef = ref
	right.AssignValue = ident("num")
	right.AssignCount = 1

	join := tree.newNode(BranchLabel, left, right)
	got := GetTypeAtFlow(ref, join, env)
	u, ok := got.(typesystem.Union)
	if !ok || len(u.Types) != 2 {
		t.Fatalf("want a 2-arm union, got %s", got.String())
	}
}

func TestVarRefForExprFallsBackToSyntaxId(t *testing.T) {
	reg := synid.New()
	e := ident("whatever")
	ref := VarRefForExpr(reg, e, nil, "")
	if ref.Kind != infercache.VarRefSyntax {
		t.Fatalf("want VarRefSyntax fallback, got %v", ref.Kind)
	}
}
