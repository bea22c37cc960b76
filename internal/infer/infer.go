// Package infer implements expression inference (spec.md §4.5) and
// overload resolution (spec.md §4.6): the single `InferExpr` entry
// point a semantic-model consumer calls to get an expression's static
// type, memoized through internal/infercache and built on top of
// internal/db, internal/compat, internal/generic and internal/members.
//
// Grounded on the teacher's per-expression-kind file split
// (internal/analyzer/inference_calls.go, inference_literals.go,
// inference_control.go, ...) kept here as the file layout (infer.go
// dispatch, call.go overloads, operators.go binary/unary, table.go
// literals); call/overload mechanics follow
// original_source/.../semantic/infer/infer_call.rs, infer_call_func.rs,
// infer_table.rs, infer_binary.rs.
package infer

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/flow"
	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/synid"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Env is the per-file inference context: the db snapshot it reads from,
// the syntax-id registry and memoization cache it's wired against, and
// the generic/compat/members sub-environments those layers need.
type Env struct {
	Index  *db.Index
	File   ids.FileId
	Cache  *infercache.Cache
	Reg    *synid.Registry
	Gen    *generic.Env
	Compat *compat.Env
	Mem    *members.Env
}

// declResolver adapts a db.DeclTree lookup to flow.Resolver, so a
// closure's flow graph can be built with DeclId-precise VarRefIds.
type declResolver struct{ env *Env }

func (d declResolver) ResolveLocal(name string, pos ids.Position) (ids.DeclId, bool) {
	tree, ok := d.env.Index.DeclTrees[d.env.File]
	if !ok {
		return ids.DeclId{}, false
	}
	decl, ok := tree.FindLocalDecl(name, pos)
	if !ok {
		return ids.DeclId{}, false
	}
	return decl.Id, true
}

// InferExpr is the cache-wrapped entry point (spec.md §4.5 "Single
// entry point; dispatches on syntax-node kind. Cache-wrapped.").
func (e *Env) InferExpr(expr ast.Expression) typesystem.Type {
	if expr == nil {
		return typesystem.Unknown
	}
	key := infercache.ExprKey{SynId: e.Reg.Id(expr)}
	if cached, state := e.Cache.ReadyExpr(key); state == infercache.Found {
		return cached
	} else if state == infercache.InProgress {
		// RecursiveInfer: a cycle bottoms out permissively (spec.md §7).
		return typesystem.Unknown
	}
	t := e.infer(expr)
	if t == nil {
		t = typesystem.Unknown
	}
	e.Cache.PutExpr(key, t)
	return t
}

func (e *Env) infer(expr ast.Expression) typesystem.Type {
	switch v := expr.(type) {
	case *ast.IntegerLiteral:
		return typesystem.IntConst{Value: v.Value}
	case *ast.FloatLiteral:
		return typesystem.FloatConst{Value: v.Value}
	case *ast.BooleanLiteral:
		return typesystem.BoolConst{Value: v.Value}
	case *ast.NilLiteral:
		return typesystem.Nil
	case *ast.StringLiteral:
		return typesystem.StringConst{Value: v.Value}
	case *ast.FormatStringLiteral:
		return typesystem.String
	case *ast.InterpolatedString:
		return typesystem.String
	case *ast.CharLiteral:
		return typesystem.String
	case *ast.BytesLiteral:
		return typesystem.String
	case *ast.BigIntLiteral:
		return typesystem.Integer
	case *ast.RationalLiteral:
		return typesystem.Number

	case *ast.Identifier:
		return e.inferIdentifier(v)

	case *ast.IndexExpression:
		return e.inferIndexExpr(v)
	case *ast.MemberExpression:
		return e.inferMemberExpr(v)

	case *ast.InfixExpression:
		return e.inferInfix(v)
	case *ast.PrefixExpression:
		return e.inferPrefix(v)
	case *ast.PostfixExpression:
		return e.InferExpr(v.Left)

	case *ast.CallExpression:
		return e.inferCall(v)

	case *ast.FunctionLiteral:
		return e.inferClosure(v)

	case *ast.TupleLiteral:
		return e.inferTuple(v)
	case *ast.ListLiteral:
		return e.inferList(v)
	case *ast.RecordLiteral:
		return e.inferRecord(v)
	case *ast.MapLiteral:
		return e.inferMap(v)

	case *ast.AnnotatedExpression:
		return e.InferExpr(v.Expression)

	case *ast.SpreadExpression:
		return e.InferExpr(v.Expression)

	case *ast.IfExpression:
		return e.inferIf(v)

	case *ast.AssignExpression:
		return e.InferExpr(v.Value)
	case *ast.PatternAssignExpression:
		return e.InferExpr(v.Value)

	default:
		return typesystem.Unknown
	}
}

// inferIdentifier implements spec.md §4.5's Name-expression case: decl
// tree, then self-in-method, then the global index. The result here is
// the declared-or-inferred type with no flow narrowing applied —
// narrowing is a distinct consult a position-aware caller layers on top
// (internal/semantic), since get_type_at_flow needs the specific flow
// node at the use site, which InferExpr's SynId-only cache key can't
// carry.
func (e *Env) inferIdentifier(id *ast.Identifier) typesystem.Type {
	pos := ids.Position{Line: id.Token.Line, Column: id.Token.Column}

	if id.Value == "self" {
		if tree, ok := e.Index.DeclTrees[e.File]; ok {
			if t, ok := tree.IsSelfInMethod(pos); ok {
				return t
			}
		}
	}

	if tree, ok := e.Index.DeclTrees[e.File]; ok {
		if decl, ok := tree.FindLocalDecl(id.Value, pos); ok {
			if decl.InferredType != nil {
				return decl.InferredType
			}
			if decl.DeclaredType != nil {
				return decl.DeclaredType
			}
			return typesystem.Unknown
		}
	}

	if decl, ok := e.Index.Globals.Lookup(id.Value); ok {
		if tree, ok := e.Index.DeclTrees[decl.File]; ok {
			if d := findDeclById(tree.Root, decl); d != nil {
				if d.InferredType != nil {
					return d.InferredType
				}
				if d.DeclaredType != nil {
					return d.DeclaredType
				}
			}
		}
	}

	return typesystem.Unknown
}

func findDeclById(s *db.Scope, id ids.DeclId) *db.Decl {
	for _, d := range s.Decls {
		if d.Id == id {
			return d
		}
	}
	for _, c := range s.Children {
		if d := findDeclById(c, id); d != nil {
			return d
		}
	}
	return nil
}

// inferIndexExpr implements `p[k]` (spec.md §4.5): infer p, then member
// lookup keyed by k's static type/value when it's a literal.
func (e *Env) inferIndexExpr(v *ast.IndexExpression) typesystem.Type {
	base := e.InferExpr(v.Left)
	key := e.keyOf(v.Index)
	if info, ok := members.FindMemberByKey(base, key, e.Mem); ok {
		return info.Type
	}
	return typesystem.Unknown
}

// inferMemberExpr implements `p.k` (spec.md §4.5).
func (e *Env) inferMemberExpr(v *ast.MemberExpression) typesystem.Type {
	base := e.InferExpr(v.Left)
	if v.Member == nil {
		return typesystem.Unknown
	}
	key := typesystem.NameKey(v.Member.Value)
	info, ok := members.FindMemberByKey(base, key, e.Mem)
	if !ok {
		if v.IsOptional {
			return typesystem.Nil
		}
		return typesystem.Unknown
	}
	if v.IsOptional {
		return typesystem.NewNullable(info.Type)
	}
	return info.Type
}

// keyOf converts an index expression's key operand into a MemberKey:
// literal keys narrow to a name/int key, anything else falls back to an
// expression-typed key (spec.md §3.1 MemberKey.ExprType).
func (e *Env) keyOf(k ast.Expression) typesystem.MemberKey {
	switch v := k.(type) {
	case *ast.StringLiteral:
		return typesystem.NameKey(v.Value)
	case *ast.IntegerLiteral:
		return typesystem.IntKey(v.Value)
	default:
		return typesystem.ExprKey(e.InferExpr(k))
	}
}

func (e *Env) inferIf(v *ast.IfExpression) typesystem.Type {
	// an if used in expression position yields the union of both arms'
	// last-expression types; a purely-statement if contributes nothing
	// useful and callers ignore the result.
	return typesystem.NormalizeUnion([]typesystem.Type{
		lastExprType(e, v.Consequence),
		lastExprType(e, v.Alternative),
	})
}

func lastExprType(e *Env, b *ast.BlockStatement) typesystem.Type {
	if b == nil || len(b.Statements) == 0 {
		return typesystem.Nil
	}
	last := b.Statements[len(b.Statements)-1]
	if es, ok := last.(*ast.ExpressionStatement); ok {
		return e.InferExpr(es.Expression)
	}
	return typesystem.Nil
}

// FlowEnv builds a flow.Env wired to this inference env, for a caller
// (internal/semantic) that needs to narrow a specific occurrence.
func (e *Env) FlowEnv() *flow.Env {
	return &flow.Env{
		Cache:     e.Cache,
		InferExpr: e.InferExpr,
		Declared: func(ref infercache.VarRefId) typesystem.Type {
			if ref.Kind != infercache.VarRefDecl {
				return typesystem.Unknown
			}
			tree, ok := e.Index.DeclTrees[ref.Decl.File]
			if !ok {
				return typesystem.Unknown
			}
			if d := findDeclById(tree.Root, ref.Decl); d != nil {
				if d.DeclaredType != nil {
					return d.DeclaredType
				}
			}
			return typesystem.Unknown
		},
		RefOf: e.refOf,
	}
}

// refOf recognizes the expression forms that denote a narrow-able
// variable reference: a bare identifier (local or global) or a dotted
// member-access chain, reduced to its canonical textual path.
func (e *Env) refOf(expr ast.Expression) (infercache.VarRefId, bool) {
	switch v := expr.(type) {
	case *ast.Identifier:
		pos := ids.Position{Line: v.Token.Line, Column: v.Token.Column}
		if tree, ok := e.Index.DeclTrees[e.File]; ok {
			if decl, ok := tree.FindLocalDecl(v.Value, pos); ok {
				return infercache.VarRefId{Kind: infercache.VarRefDecl, Decl: decl.Id}, true
			}
		}
		return infercache.VarRefId{Kind: infercache.VarRefName, Name: v.Value}, true
	case *ast.MemberExpression:
		if path, ok := dottedPath(v); ok {
			return infercache.VarRefId{Kind: infercache.VarRefName, Name: path}, true
		}
	}
	return infercache.VarRefId{}, false
}

func dottedPath(v *ast.MemberExpression) (string, bool) {
	var prefix string
	switch base := v.Left.(type) {
	case *ast.Identifier:
		prefix = base.Value
	case *ast.MemberExpression:
		p, ok := dottedPath(base)
		if !ok {
			return "", false
		}
		prefix = p
	default:
		return "", false
	}
	if v.Member == nil {
		return "", false
	}
	return prefix + "." + v.Member.Value, true
}

// BuildFlow constructs (and memoizes nothing — callers own the lifetime of
// the result) the flow graph for a closure body, wired with this env's
// decl resolver.
func (e *Env) BuildFlow(body *ast.BlockStatement) *flow.Result {
	return flow.Build(body, e.Reg, declResolver{e})
}
