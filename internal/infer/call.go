package infer

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/typesystem"
)

// inferCall implements spec.md §4.5's call-expression case.
func (e *Env) inferCall(v *ast.CallExpression) typesystem.Type {
	if fn, ok := v.Function.(*ast.Identifier); ok {
		switch fn.Value {
		case "require":
			return e.inferRequire(v)
		case "type":
			return typesystem.String
		}
	}

	// this CST has no syntactic colon-vs-dot distinction at a call site
	// (method calls go through the same MemberExpression as field
	// access); a receiver method's self parameter is therefore always
	// implicit, never something a caller supplies explicitly.
	isColonCall := false

	calleeType := e.InferExpr(v.Function)
	fnShape, ok := e.inferCallExprFunc(calleeType)
	if !ok {
		return typesystem.Unknown
	}

	args := make([]typesystem.Type, len(v.Arguments))
	for i, a := range v.Arguments {
		args[i] = e.InferExpr(a)
	}

	fnShape = adjustColonDot(fnShape, isColonCall)

	resolved := e.resolveOverload(fnShape, v, args)
	return e.composeCallResult(resolved.Return, v)
}

// adjustColonDot prepends/drops a synthetic self parameter so a callee's
// declared colon-ness and the call site's colon-ness line up before
// arities and param indices are compared (spec.md §4.5 "Colon calls vs
// dot calls").
func adjustColonDot(fn typesystem.FunctionType, isColonCall bool) typesystem.FunctionType {
	if fn.IsColonDefine == isColonCall {
		return fn
	}
	out := fn
	if fn.IsColonDefine && !isColonCall {
		// declared with `:`, called with `.`: self becomes an explicit
		// first argument slot the caller must supply.
		params := make([]typesystem.Param, 0, len(fn.Params)+1)
		params = append(params, typesystem.Param{Name: "self", Type: typesystem.Any})
		params = append(params, fn.Params...)
		out.Params = params
		return out
	}
	// declared with `.`, called with `:`: drop the first declared
	// parameter, since the receiver fills it implicitly.
	if len(fn.Params) > 0 {
		out.Params = fn.Params[1:]
	}
	return out
}

// InferCallExprFunc is the exported form of inferCallExprFunc, the
// collapse step spec.md §4.10's semantic façade exposes directly as
// `infer_call_expr_func`.
func (e *Env) InferCallExprFunc(t typesystem.Type) (typesystem.FunctionType, bool) {
	return e.inferCallExprFunc(t)
}

// inferCallExprFunc collapses a callee's static type down to a concrete
// FunctionType through references, generics, operator-Call meta-methods
// and signatures (spec.md §4.5 step 1).
func (e *Env) inferCallExprFunc(t typesystem.Type) (typesystem.FunctionType, bool) {
	switch v := t.(type) {
	case typesystem.DocFunction:
		return v.Fn, true

	case typesystem.Signature:
		sig, ok := e.Index.Signatures.Get(v.Id)
		if !ok {
			return typesystem.FunctionType{}, false
		}
		return sig.Base(), true

	case typesystem.Ref:
		if fn, ok, isGeneric := e.operatorCall(v.Id); ok {
			if isGeneric {
				return fn, true
			}
			return fn, true
		}
		return typesystem.FunctionType{}, false

	case typesystem.Def:
		if fn, ok, _ := e.operatorCall(v.Id); ok {
			return fn, true
		}
		return typesystem.FunctionType{}, false

	case typesystem.Generic:
		fn, ok, _ := e.operatorCall(v.Base)
		if !ok {
			return typesystem.FunctionType{}, false
		}
		tplIds := genericParamIds(e.Index.Types, v.Base)
		subst := generic.FromTypeArray(tplIds, v.Params)
		inst := generic.Instantiate(typesystem.DocFunction{Fn: fn}, subst, e.Gen)
		if df, ok := inst.(typesystem.DocFunction); ok {
			return df.Fn, true
		}
		return fn, true

	case typesystem.Instance:
		return e.inferCallExprFunc(v.Base)

	case typesystem.Nullable:
		return e.inferCallExprFunc(v.Elem)

	default:
		return typesystem.FunctionType{}, false
	}
}

func genericParamIds(types *db.TypeIndex, id ids.TypeDeclId) []ids.TplId {
	if types == nil {
		return nil
	}
	decls := types.GenericParams[id]
	out := make([]ids.TplId, len(decls))
	for i, d := range decls {
		out[i] = ids.TplId{Owner: id, Name: d.Name}
	}
	return out
}

func (e *Env) operatorCall(id ids.TypeDeclId) (typesystem.FunctionType, bool, bool) {
	if fn, ok := e.Index.Operators.Lookup(db.TypeOperatorOwner(id), db.OpCall); ok {
		return fn, true, typesystem.ContainsTemplate(typesystem.DocFunction{Fn: fn})
	}
	return typesystem.FunctionType{}, false, false
}

func (e *Env) inferRequire(v *ast.CallExpression) typesystem.Type {
	if len(v.Arguments) != 1 {
		return typesystem.Unknown
	}
	lit, ok := v.Arguments[0].(*ast.StringLiteral)
	if !ok {
		return typesystem.Unknown
	}
	if _, ok := e.Index.Modules.Resolve(lit.Value); !ok {
		return typesystem.Unknown
	}
	return typesystem.Module{Path: lit.Value}
}

// overloadScore is the outcome of scoring one overload against a call
// site's concrete argument list (spec.md §4.6).
type overloadScore struct {
	fn    typesystem.FunctionType
	score int
}

// resolveOverload implements spec.md §4.6: score every overload
// (including the base shape), pick the highest, ties broken by
// declaration order with the later-declared candidate winning.
func (e *Env) resolveOverload(base typesystem.FunctionType, call *ast.CallExpression, args []typesystem.Type) typesystem.FunctionType {
	candidates := []typesystem.FunctionType{base}
	if sig, ok := e.calleeSignature(call); ok {
		candidates = sig.Overloads
		if len(candidates) == 0 {
			candidates = []typesystem.FunctionType{base}
		}
	}

	if anyGeneric(candidates) {
		return e.instantiateGenericCandidate(base, args)
	}

	var best *overloadScore
	for _, fn := range candidates {
		s := e.scoreOverload(fn, args)
		if best == nil || s >= best.score {
			best = &overloadScore{fn: fn, score: s}
		}
	}
	if best == nil {
		return base
	}
	return best.fn
}

func (e *Env) calleeSignature(call *ast.CallExpression) (*db.Signature, bool) {
	fnExpr := call.Function
	if me, ok := fnExpr.(*ast.MemberExpression); ok {
		if me.Member == nil {
			return nil, false
		}
		baseType := e.InferExpr(me.Left)
		key := typesystem.NameKey(me.Member.Value)
		if owner, ok := e.signatureOwnerFor(baseType, key); ok {
			return owner, true
		}
		return nil, false
	}
	return nil, false
}

func (e *Env) signatureOwnerFor(baseType typesystem.Type, key typesystem.MemberKey) (*db.Signature, bool) {
	info, ok := members.FindMemberByKey(baseType, key, e.Mem)
	if !ok {
		return nil, false
	}
	sig, isSig := info.Type.(typesystem.Signature)
	if !isSig {
		return nil, false
	}
	return e.Index.Signatures.Get(sig.Id)
}

func anyGeneric(fns []typesystem.FunctionType) bool {
	for _, fn := range fns {
		if typesystem.ContainsTemplate(typesystem.DocFunction{Fn: fn}) {
			return true
		}
	}
	return false
}

func (e *Env) instantiateGenericCandidate(fn typesystem.FunctionType, args []typesystem.Type) typesystem.FunctionType {
	s := generic.Empty()
	for i, p := range fn.Params {
		if i >= len(args) {
			break
		}
		generic.Match(p.Type, args[i], s)
	}
	inst := generic.Instantiate(typesystem.DocFunction{Fn: fn}, s, e.Gen)
	if df, ok := inst.(typesystem.DocFunction); ok {
		return df.Fn
	}
	return fn
}

// scoreOverload implements spec.md §4.6 step 2: +1 per compatible
// argument, +1 extra for an exact (non-Any) match, a penalty for
// argument over-subscription past a non-variadic arity.
func (e *Env) scoreOverload(fn typesystem.FunctionType, args []typesystem.Type) int {
	score := 0
	for i, p := range fn.Params {
		if i >= len(args) {
			break
		}
		res := compat.Check(p.Type, args[i], e.Compat)
		if res.Kind == compat.Ok {
			score++
			if !typesystem.Equal(p.Type, typesystem.Any) {
				score++
			}
		}
	}
	if !fn.IsVariadic && len(args) > len(fn.Params) {
		score -= len(args) - len(fn.Params)
	}
	return score
}

// composeCallResult implements spec.md §4.5 step 3: multi-return
// truncation/Instance-wrapping/Variadic-unwrapping based on the call's
// syntactic position.
func (e *Env) composeCallResult(ret typesystem.Type, call *ast.CallExpression) typesystem.Type {
	if ret == nil {
		return typesystem.Unknown
	}
	if v, ok := ret.(typesystem.Variadic); ok {
		ret = v.Inner.Base
	}
	if _, ok := ret.(typesystem.MultiReturn); ok {
		if !callAcceptsMulti(call) {
			ret = ret.(typesystem.MultiReturn).First()
		}
	}
	switch ret.(type) {
	case typesystem.Prim:
		if isWrappableTableResult(ret) {
			return typesystem.Instance{Base: ret, Range: ids.SourceRange{File: e.File, Range: exprRange(call)}}
		}
	case typesystem.TableConst:
		return typesystem.Instance{Base: ret, Range: ids.SourceRange{File: e.File, Range: exprRange(call)}}
	}
	return ret
}

func isWrappableTableResult(t typesystem.Type) bool {
	p, ok := t.(typesystem.Prim)
	if !ok {
		return false
	}
	return p == typesystem.TableType.(typesystem.Prim) || p == typesystem.Any.(typesystem.Prim) || p == typesystem.Unknown.(typesystem.Prim)
}

// callAcceptsMulti reports whether call sits in a syntactic position
// that can accept more than one return value. It always returns false:
// the CST has no parent pointer and no caller supplies a position
// context, so every MultiReturn call result is truncated to its first
// element, including in assignment, binding, return, array-element and
// call-argument positions.
func callAcceptsMulti(call *ast.CallExpression) bool {
	return false
}

func exprRange(e ast.Expression) ids.TextRange {
	tok := e.GetToken()
	p := ids.Position{Line: tok.Line, Column: tok.Column}
	return ids.TextRange{Start: p, End: p}
}
