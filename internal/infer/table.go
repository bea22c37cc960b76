package infer

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// inferTuple implements spec.md §4.5's array-style table case for a
// literal tuple: collect each element's type, flattening a trailing
// spread into the tuple's variadic tail.
func (e *Env) inferTuple(v *ast.TupleLiteral) typesystem.Type {
	if len(v.Elements) == 0 {
		return typesystem.TableConst{Range: ids.SourceRange{File: e.File, Range: exprRange(v)}}
	}
	elems := make([]typesystem.Type, 0, len(v.Elements))
	for i, el := range v.Elements {
		if sp, ok := el.(*ast.SpreadExpression); ok && i == len(v.Elements)-1 {
			inner := e.InferExpr(sp.Expression)
			elems = append(elems, typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicBase, Base: elementTypeOf(inner)}})
			continue
		}
		elems = append(elems, e.InferExpr(el))
	}
	return typesystem.Tuple{Elems: elems}
}

// inferList implements the array-style table case for a homogeneous
// list literal: a list whose only element is a spread yields
// Array(inner); otherwise every element's type is unioned into the
// array's element type.
func (e *Env) inferList(v *ast.ListLiteral) typesystem.Type {
	if len(v.Elements) == 0 {
		return typesystem.Array{Elem: typesystem.Unknown}
	}
	if sp, ok := v.Elements[0].(*ast.SpreadExpression); ok && len(v.Elements) == 1 {
		inner := e.InferExpr(sp.Expression)
		return typesystem.Array{Elem: elementTypeOf(inner)}
	}
	parts := make([]typesystem.Type, 0, len(v.Elements))
	for _, el := range v.Elements {
		parts = append(parts, e.InferExpr(el))
	}
	return typesystem.Array{Elem: typesystem.NormalizeUnion(parts)}
}

func elementTypeOf(t typesystem.Type) typesystem.Type {
	switch v := t.(type) {
	case typesystem.Array:
		return v.Elem
	default:
		return t
	}
}

// inferRecord implements the object-style table case (spec.md §4.5): an
// Object whose fields are the literal's keys, spread fields merged in
// from the base expression's own members when present.
func (e *Env) inferRecord(v *ast.RecordLiteral) typesystem.Type {
	fields := make(map[typesystem.MemberKey]typesystem.Type, len(v.Fields))
	if v.Spread != nil {
		base := e.InferExpr(v.Spread)
		for _, m := range membersOfBase(e, base) {
			fields[m.Key] = m.Type
		}
	}
	for name, val := range v.Fields {
		fields[typesystem.NameKey(name)] = e.InferExpr(val)
	}
	return typesystem.Object{Fields: fields}
}

func membersOfBase(e *Env, base typesystem.Type) []struct {
	Key  typesystem.MemberKey
	Type typesystem.Type
} {
	var out []struct {
		Key  typesystem.MemberKey
		Type typesystem.Type
	}
	if obj, ok := base.(typesystem.Object); ok {
		for k, t := range obj.Fields {
			out = append(out, struct {
				Key  typesystem.MemberKey
				Type typesystem.Type
			}{k, t})
		}
	}
	return out
}

// inferMap implements a `%{...}` literal as an Object keyed by each
// pair's key expression when it's a literal, or index-accessed
// otherwise (spec.md §3.1 Object.IndexAccess).
func (e *Env) inferMap(v *ast.MapLiteral) typesystem.Type {
	fields := make(map[typesystem.MemberKey]typesystem.Type, len(v.Pairs))
	var indexed []typesystem.IndexAccessEntry
	for _, p := range v.Pairs {
		valType := e.InferExpr(p.Value)
		switch k := p.Key.(type) {
		case *ast.StringLiteral:
			fields[typesystem.NameKey(k.Value)] = valType
		case *ast.IntegerLiteral:
			fields[typesystem.IntKey(k.Value)] = valType
		default:
			keyType := e.InferExpr(p.Key)
			indexed = append(indexed, typesystem.IndexAccessEntry{Key: keyType, Value: valType})
		}
	}
	return typesystem.Object{Fields: fields, IndexAccess: indexed}
}

// inferClosure implements spec.md §4.5's closure-expression case: the
// function's own body-return inference is deferred to the decl/doc
// analyzer's unresolve queue, so this just surfaces the signature handle
// the decl analyzer registered for this literal's position.
func (e *Env) inferClosure(v *ast.FunctionLiteral) typesystem.Type {
	pos := ids.Position{Line: v.Token.Line, Column: v.Token.Column}
	id := ids.SignatureId{File: e.File, Pos: pos}
	if _, ok := e.Index.Signatures.Get(id); ok {
		return typesystem.Signature{Id: id}
	}
	return typesystem.Unknown
}
