package infer

import (
	"testing"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/synid"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

func newTestEnv() *Env {
	return &Env{Cache: infercache.New(), Reg: synid.New()}
}

func intLit(v int64) *ast.IntegerLiteral { return &ast.IntegerLiteral{Token: token.Token{}, Value: v} }
func strLit(v string) *ast.StringLiteral { return &ast.StringLiteral{Token: token.Token{}, Value: v} }
func boolLit(v bool) *ast.BooleanLiteral { return &ast.BooleanLiteral{Token: token.Token{}, Value: v} }

func TestInferLiterals(t *testing.T) {
	e := newTestEnv()

	if got := e.InferExpr(intLit(3)); !typesystem.Equal(got, typesystem.IntConst{Value: 3}) {
		t.Fatalf("int literal: got %s", got.String())
	}
	if got := e.InferExpr(strLit("hi")); !typesystem.Equal(got, typesystem.StringConst{Value: "hi"}) {
		t.Fatalf("string literal: got %s", got.String())
	}
	if got := e.InferExpr(boolLit(true)); !typesystem.Equal(got, typesystem.BoolConst{Value: true}) {
		t.Fatalf("bool literal: got %s", got.String())
	}
	if got := e.InferExpr(&ast.NilLiteral{}); got != typesystem.Nil {
		t.Fatalf("nil literal: got %s", got.String())
	}
}

func TestInferArithmeticConstantFolding(t *testing.T) {
	e := newTestEnv()
	expr := &ast.InfixExpression{Operator: "+", Left: intLit(2), Right: intLit(3)}
	got := e.InferExpr(expr)
	if !typesystem.Equal(got, typesystem.IntConst{Value: 5}) {
		t.Fatalf("want IntConst(5), got %s", got.String())
	}
}

func TestInferComparisonIsBoolean(t *testing.T) {
	e := newTestEnv()
	expr := &ast.InfixExpression{Operator: string(token.EQ), Left: intLit(1), Right: intLit(2)}
	if got := e.InferExpr(expr); !typesystem.Equal(got, typesystem.Boolean) {
		t.Fatalf("want Boolean, got %s", got.String())
	}
}

func TestInferOrUnionsNonFalsyLeftWithRight(t *testing.T) {
	e := newTestEnv()
	expr := &ast.InfixExpression{
		Operator: string(token.OR),
		Left:     intLit(5),
		Right:    strLit("fallback"),
	}
	got := e.InferExpr(expr)
	u, ok := got.(typesystem.Union)
	if !ok || len(u.Types) != 2 {
		t.Fatalf("want a 2-arm union of left and right, got %s", got.String())
	}
}

func TestInferEmptyListIsArrayOfUnknown(t *testing.T) {
	e := newTestEnv()
	got := e.InferExpr(&ast.ListLiteral{})
	arr, ok := got.(typesystem.Array)
	if !ok || arr.Elem != typesystem.Unknown {
		t.Fatalf("want Array(Unknown), got %s", got.String())
	}
}

func TestInferTupleLiteral(t *testing.T) {
	e := newTestEnv()
	got := e.InferExpr(&ast.TupleLiteral{Elements: []ast.Expression{intLit(1), strLit("a")}})
	tup, ok := got.(typesystem.Tuple)
	if !ok || len(tup.Elems) != 2 {
		t.Fatalf("want a 2-elem tuple, got %s", got.String())
	}
}
