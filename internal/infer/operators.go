package infer

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

var comparisonOps = map[string]bool{
	string(token.EQ): true, string(token.NOT_EQ): true,
	"<": true, "<=": true, ">": true, ">=": true,
}

var arithOpMeta = map[string]db.OperatorName{
	"+": db.OpAdd, "-": db.OpSub, "*": db.OpMul, "/": db.OpDiv,
	"%": db.OpMod, "^": db.OpPow, "//": db.OpIDiv,
	"&": db.OpBAnd, "|": db.OpBOr, "~": db.OpBXor,
	"<<": db.OpShl, ">>": db.OpShr, "..": db.OpConcat,
}

// inferInfix implements spec.md §4.5's binary-expression case.
func (e *Env) inferInfix(v *ast.InfixExpression) typesystem.Type {
	switch {
	case comparisonOps[v.Operator]:
		return typesystem.Boolean

	case v.Operator == string(token.AND):
		e.InferExpr(v.Left)
		return e.InferExpr(v.Right)

	case v.Operator == string(token.OR):
		left := typesystem.RemoveFalsy(e.InferExpr(v.Left))
		right := e.InferExpr(v.Right)
		return typesystem.NormalizeUnion([]typesystem.Type{left, right})

	default:
		return e.inferArith(v)
	}
}

func (e *Env) inferArith(v *ast.InfixExpression) typesystem.Type {
	left := e.InferExpr(v.Left)
	right := e.InferExpr(v.Right)

	if lit, ok := foldLiteralArith(v.Operator, left, right); ok {
		return lit
	}

	meta, ok := arithOpMeta[v.Operator]
	if !ok {
		return typesystem.Unknown
	}
	if fn, ok := e.lookupOperator(left, meta); ok {
		return fn.Return
	}
	if fn, ok := e.lookupOperator(right, meta); ok {
		return fn.Return
	}
	if v.Operator == ".." {
		return typesystem.String
	}
	if isFloaty(left) || isFloaty(right) {
		return typesystem.Number
	}
	return typesystem.Integer
}

func (e *Env) lookupOperator(t typesystem.Type, name db.OperatorName) (typesystem.FunctionType, bool) {
	switch v := t.(type) {
	case typesystem.Ref:
		return e.Index.Operators.Lookup(db.TypeOperatorOwner(v.Id), name)
	case typesystem.Def:
		return e.Index.Operators.Lookup(db.TypeOperatorOwner(v.Id), name)
	case typesystem.TableConst:
		return e.Index.Operators.Lookup(db.TableOperatorOwner(v.Range.File, v.Range.Range), name)
	case typesystem.Instance:
		return e.lookupOperator(v.Base, name)
	default:
		return typesystem.FunctionType{}, false
	}
}

func isFloaty(t typesystem.Type) bool {
	switch v := t.(type) {
	case typesystem.FloatConst:
		return true
	case typesystem.Prim:
		return v == typesystem.Number.(typesystem.Prim)
	default:
		return false
	}
}

func foldLiteralArith(op string, left, right typesystem.Type) (typesystem.Type, bool) {
	li, lok := left.(typesystem.IntConst)
	ri, rok := right.(typesystem.IntConst)
	if lok && rok {
		if v, ok := foldInt(op, li.Value, ri.Value); ok {
			return typesystem.IntConst{Value: v}, true
		}
	}
	lf, lfOk := asFloat(left)
	rf, rfOk := asFloat(right)
	if (lok || lfOk) && (rok || rfOk) && (lfOk || rfOk) {
		if v, ok := foldFloat(op, lf, rf); ok {
			return typesystem.FloatConst{Value: v}, true
		}
	}
	return nil, false
}

func asFloat(t typesystem.Type) (float64, bool) {
	switch v := t.(type) {
	case typesystem.FloatConst:
		return v.Value, true
	case typesystem.IntConst:
		return float64(v.Value), true
	default:
		return 0, false
	}
}

func foldInt(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "%":
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case "//":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	default:
		return 0, false
	}
}

func foldFloat(op string, a, b float64) (float64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		return a / b, true
	default:
		return 0, false
	}
}

// inferPrefix implements spec.md §4.5's unary-expression case.
func (e *Env) inferPrefix(v *ast.PrefixExpression) typesystem.Type {
	right := e.InferExpr(v.Right)
	switch v.Operator {
	case string(token.BANG), "not":
		if typesystem.IsFalsy(right) {
			return typesystem.BoolConst{Value: true}
		}
		return typesystem.Boolean
	case "-":
		switch r := right.(type) {
		case typesystem.IntConst:
			return typesystem.IntConst{Value: -r.Value}
		case typesystem.FloatConst:
			return typesystem.FloatConst{Value: -r.Value}
		default:
			if isFloaty(right) {
				return typesystem.Number
			}
			return typesystem.Integer
		}
	case "~":
		if r, ok := right.(typesystem.IntConst); ok {
			return typesystem.IntConst{Value: ^r.Value}
		}
		return typesystem.Integer
	case "#":
		if fn, ok := e.lookupOperator(right, db.OpLen); ok {
			return fn.Return
		}
		return typesystem.Integer
	default:
		return typesystem.Unknown
	}
}
