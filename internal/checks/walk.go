package checks

import "github.com/funvibe/funxy/internal/ast"

// walkProgram runs a manual recursive descent over every expression in
// a file, in the same direct-struct-field idiom internal/flow/build.go
// uses to walk statements: no Visitor plumbing, just one switch per
// node shape this CST actually produces.
func walkProgram(p *ast.Program, visit func(ast.Expression)) {
	if p == nil {
		return
	}
	for _, s := range p.Statements {
		walkStmt(s, visit)
	}
}

func walkStmt(s ast.Statement, visit func(ast.Expression)) {
	switch v := s.(type) {
	case *ast.ExpressionStatement:
		walkExpr(v.Expression, visit)
	case *ast.ConstantDeclaration:
		walkExpr(v.Value, visit)
	case *ast.ReturnStatement:
		walkExpr(v.Value, visit)
	case *ast.BreakStatement:
		walkExpr(v.Value, visit)
	case *ast.BlockStatement:
		for _, st := range v.Statements {
			walkStmt(st, visit)
		}
	case *ast.FunctionStatement:
		walkBlock(v.Body, visit)
	}
}

// walkBlock guards against a nil *ast.BlockStatement reaching walkStmt
// as a non-nil ast.Statement interface value (a typed-nil pointer
// wrapped in an interface is not == nil, and BlockStatement's fields
// can't be read through a nil receiver).
func walkBlock(b *ast.BlockStatement, visit func(ast.Expression)) {
	if b == nil {
		return
	}
	walkStmt(b, visit)
}

func walkExpr(e ast.Expression, visit func(ast.Expression)) {
	if e == nil {
		return
	}
	visit(e)
	switch v := e.(type) {
	case *ast.IndexExpression:
		walkExpr(v.Left, visit)
		walkExpr(v.Index, visit)
	case *ast.MemberExpression:
		walkExpr(v.Left, visit)
	case *ast.AnnotatedExpression:
		walkExpr(v.Expression, visit)
	case *ast.InfixExpression:
		walkExpr(v.Left, visit)
		walkExpr(v.Right, visit)
	case *ast.PrefixExpression:
		walkExpr(v.Right, visit)
	case *ast.PostfixExpression:
		walkExpr(v.Left, visit)
	case *ast.AssignExpression:
		walkExpr(v.Left, visit)
		walkExpr(v.Value, visit)
	case *ast.PatternAssignExpression:
		walkExpr(v.Value, visit)
	case *ast.CallExpression:
		walkExpr(v.Function, visit)
		for _, a := range v.Arguments {
			walkExpr(a, visit)
		}
	case *ast.SpreadExpression:
		walkExpr(v.Expression, visit)
	case *ast.TupleLiteral:
		for _, el := range v.Elements {
			walkExpr(el, visit)
		}
	case *ast.ListLiteral:
		for _, el := range v.Elements {
			walkExpr(el, visit)
		}
	case *ast.RecordLiteral:
		walkExpr(v.Spread, visit)
		for _, val := range v.Fields {
			walkExpr(val, visit)
		}
	case *ast.MapLiteral:
		for _, pair := range v.Pairs {
			walkExpr(pair.Key, visit)
			walkExpr(pair.Value, visit)
		}
	case *ast.IfExpression:
		walkExpr(v.Condition, visit)
		walkBlock(v.Consequence, visit)
		walkBlock(v.Alternative, visit)
	case *ast.ForExpression:
		if v.Initializer != nil {
			walkStmt(v.Initializer, visit)
		}
		walkExpr(v.Condition, visit)
		walkExpr(v.Iterable, visit)
		walkBlock(v.Body, visit)
	case *ast.FunctionLiteral:
		walkBlock(v.Body, visit)
	}
}
