package flow

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Env supplies GetTypeAtFlow with the two pieces of information it
// cannot compute on its own: the declared (unnarrowed) type of a
// variable, and the inferred type of an arbitrary expression (needed
// for an assignment's RHS and for the operand of a `type(x)` guard).
// Both are callbacks rather than direct imports of internal/infer,
// since internal/infer itself calls into this package for name
// resolution — the same Env/callback idiom internal/generic and
// internal/members already use to avoid import cycles.
type Env struct {
	Cache *infercache.Cache

	// Declared returns ref's declared type (the type a flow walk bottoms
	// out to at Start or an unrelated antecedent).
	Declared func(ref infercache.VarRefId) typesystem.Type

	// InferExpr infers e's static type without any flow narrowing applied
	// (used for assignment RHS values and call arguments in conditions).
	InferExpr func(e ast.Expression) typesystem.Type

	// RefOf reports the VarRefId a condition/assignment-target expression
	// denotes, when it denotes one at all (an Identifier or a dotted
	// access chain); ok is false for expressions that aren't references
	// (spec.md §4.7 VarRefId derivation, mirrored from the builder's own
	// resolution in build.go's addAssignment).
	RefOf func(e ast.Expression) (ref infercache.VarRefId, ok bool)
}

func sameRef(a, b infercache.VarRefId) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case infercache.VarRefDecl:
		return a.Decl == b.Decl
	case infercache.VarRefName:
		return a.Name == b.Name
	case infercache.VarRefSyntax:
		return a.SynId == b.SynId
	}
	return false
}

// GetTypeAtFlow computes ref's narrowed type as of node (spec.md §4.7
// "get_type_at_flow(var_ref_id, flow_id)"), memoized and cycle-guarded
// through env.Cache's InProgress sentinel (a loop's back edge otherwise
// recurses forever).
func GetTypeAtFlow(ref infercache.VarRefId, node *Node, env *Env) typesystem.Type {
	if node == nil || env == nil {
		return typesystem.Unknown
	}
	key := infercache.FlowKey{VarRef: ref, FlowId: node.Id}
	if cached, state := env.Cache.ReadyFlow(key); state == infercache.Found {
		return cached
	} else if state == infercache.InProgress {
		// a loop back-edge re-entered this node before converging; bottom
		// out to the declared type rather than recursing forever (spec.md
		// §4.7 permissive default under cancellation).
		return declaredOrUnknown(ref, env)
	}

	t := computeTypeAtFlow(ref, node, env)
	env.Cache.PutFlow(key, t)
	return t
}

func declaredOrUnknown(ref infercache.VarRefId, env *Env) typesystem.Type {
	if env.Declared != nil {
		if d := env.Declared(ref); d != nil {
			return d
		}
	}
	return typesystem.Unknown
}

func computeTypeAtFlow(ref infercache.VarRefId, node *Node, env *Env) typesystem.Type {
	switch node.Kind {
	case Start, Unreachable:
		return declaredOrUnknown(ref, env)

	case DeclPosition:
		if sameRef(node.VarRef, ref) && node.DeclaredType != nil {
			return node.DeclaredType
		}
		return fromSingleAntecedent(ref, node, env)

	case Assignment:
		if !sameRef(node.VarRef, ref) {
			return fromSingleAntecedent(ref, node, env)
		}
		if node.AssignValue == nil || env.InferExpr == nil {
			return typesystem.Unknown
		}
		rhs := env.InferExpr(node.AssignValue)
		if node.AssignCount > 1 {
			return multiReturnElem(rhs, node.AssignIndex)
		}
		return rhs

	case TrueCondition, FalseCondition:
		base := fromSingleAntecedent(ref, node, env)
		return applyAssertion(ref, node.Cond, node.Kind == TrueCondition, base, env)

	case BranchLabel:
		return joinAntecedents(ref, node, env)

	case LoopLabel:
		return fromSingleAntecedent(ref, node, env)

	case TagCast:
		base := fromSingleAntecedent(ref, node, env)
		if !sameRef(node.VarRef, ref) {
			return base
		}
		return applyCast(base, node.Cast)

	case Return, Break:
		return fromSingleAntecedent(ref, node, env)

	default:
		return fromSingleAntecedent(ref, node, env)
	}
}

func fromSingleAntecedent(ref infercache.VarRefId, node *Node, env *Env) typesystem.Type {
	if len(node.Antecedents) == 0 {
		return declaredOrUnknown(ref, env)
	}
	if len(node.Antecedents) == 1 {
		return GetTypeAtFlow(ref, node.Antecedents[0], env)
	}
	return joinAntecedents(ref, node, env)
}

// joinAntecedents merges the narrowed types visible along every
// antecedent path into node. When every antecedent is itself an
// Assignment to ref (the "all-antecedents-assigned" special case,
// spec.md §4.7), the join is exact rather than a defensive union: there
// is no path into node where ref still holds its pre-assignment type.
func joinAntecedents(ref infercache.VarRefId, node *Node, env *Env) typesystem.Type {
	if len(node.Antecedents) == 0 {
		return declaredOrUnknown(ref, env)
	}
	if len(node.Antecedents) > 1 {
		if t, ok := allAntecedentsAssignedEqual(ref, node, env); ok {
			return t
		}
	}
	parts := make([]typesystem.Type, 0, len(node.Antecedents))
	for _, a := range node.Antecedents {
		parts = append(parts, GetTypeAtFlow(ref, a, env))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return typesystem.NormalizeUnion(parts)
}

// allAntecedentsAssignedEqual implements the branch-coverage special
// case (spec.md §4.7 "if every antecedent had a real assignment and the
// assigned types are equal, use that instead"): when every incoming
// path overwrote ref with an equal type, the join is exact rather than
// a defensive union that would spuriously reintroduce the pre-branch
// type through some other path's narrowing.
func allAntecedentsAssignedEqual(ref infercache.VarRefId, node *Node, env *Env) (typesystem.Type, bool) {
	var result typesystem.Type
	for _, a := range node.Antecedents {
		if a.Kind != Assignment || !sameRef(a.VarRef, ref) {
			return nil, false
		}
		t := GetTypeAtFlow(ref, a, env)
		if result == nil {
			result = t
		} else if !typesystem.Equal(result, t) {
			return nil, false
		}
	}
	if result == nil {
		return nil, false
	}
	return result, true
}

// multiReturnElem spreads a call's result shape across a destructuring
// assignment's n-th target (spec.md §4.7 "using multi-return spreading
// when the assignment was n-to-m"): a MultiReturnBase value is an
// unbounded repetition of its Base type (every index yields Base), a
// MultiReturnMulti value is a fixed list that runs out to Nil past its
// length.
func multiReturnElem(t typesystem.Type, index int) typesystem.Type {
	mr, ok := t.(typesystem.MultiReturn)
	if !ok {
		if index == 0 {
			return t
		}
		return typesystem.Nil
	}
	if mr.Kind == typesystem.MultiReturnBase {
		return mr.Base
	}
	if index < len(mr.Multi) {
		return mr.Multi[index]
	}
	return typesystem.Nil
}

func applyCast(base typesystem.Type, op CastOp) typesystem.Type {
	switch op.Kind {
	case CastForce:
		return op.Type
	case CastUnionIn:
		return typesystem.NormalizeUnion([]typesystem.Type{base, op.Type})
	case CastRemove:
		return typesystem.Remove(base, op.Type)
	case CastNullable:
		return typesystem.NewNullable(base)
	default:
		return base
	}
}

// applyAssertion narrows base according to cond, for the branch isTrue
// names (spec.md §4.7's condition-assertion algebra). Only assertions
// that mention ref have any effect; anything else passes base through
// unchanged.
func applyAssertion(ref infercache.VarRefId, cond ast.Expression, isTrue bool, base typesystem.Type, env *Env) typesystem.Type {
	if cond == nil {
		return base
	}
	switch c := cond.(type) {
	case *ast.PrefixExpression:
		if c.Operator == string(token.BANG) {
			return applyAssertion(ref, c.Right, !isTrue, base, env)
		}
		return base

	case *ast.InfixExpression:
		switch c.Operator {
		case string(token.AND):
			if isTrue {
				base = applyAssertion(ref, c.Left, true, base, env)
				return applyAssertion(ref, c.Right, true, base, env)
			}
			return base // false branch of && can't be decomposed without full DNF; stay permissive.

		case string(token.OR):
			if !isTrue {
				base = applyAssertion(ref, c.Left, false, base, env)
				return applyAssertion(ref, c.Right, false, base, env)
			}
			return base

		case string(token.EQ), string(token.NOT_EQ):
			wantEqual := (c.Operator == string(token.EQ)) == isTrue
			return applyEquality(ref, c.Left, c.Right, wantEqual, base, env)
		}
		return base

	default:
		if r, ok := refOf(env, cond); ok && sameRef(r, ref) {
			if isTrue {
				return typesystem.RemoveFalsy(base)
			}
			return typesystem.OnlyFalsy(base)
		}
		return base
	}
}

// applyEquality handles both `type(x) == "family"` and `x == <literal>`
// forms, trying each operand as the reference side in turn.
func applyEquality(ref infercache.VarRefId, left, right ast.Expression, wantEqual bool, base typesystem.Type, env *Env) typesystem.Type {
	if family, ok := typeGuardFamily(ref, left, right, env); ok {
		if wantEqual {
			return typesystem.NarrowToFamily(base, family)
		}
		return typesystem.RemoveFamily(base, family)
	}
	if family, ok := typeGuardFamily(ref, right, left, env); ok {
		if wantEqual {
			return typesystem.NarrowToFamily(base, family)
		}
		return typesystem.RemoveFamily(base, family)
	}

	if r, ok := refOf(env, left); ok && sameRef(r, ref) {
		if lit := literalType(right, env); lit != nil {
			if wantEqual {
				return typesystem.Intersect(base, lit)
			}
			return typesystem.Remove(base, lit)
		}
	}
	if r, ok := refOf(env, right); ok && sameRef(r, ref) {
		if lit := literalType(left, env); lit != nil {
			if wantEqual {
				return typesystem.Intersect(base, lit)
			}
			return typesystem.Remove(base, lit)
		}
	}
	return base
}

// typeGuardFamily recognizes `type(x)` on callExpr and a string literal
// on litExpr, returning the asserted family when callExpr's sole
// argument denotes ref.
func typeGuardFamily(ref infercache.VarRefId, callExpr, litExpr ast.Expression, env *Env) (string, bool) {
	call, ok := callExpr.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 1 {
		return "", false
	}
	fnName, ok := call.Function.(*ast.Identifier)
	if !ok || fnName.Value != "type" {
		return "", false
	}
	if r, ok := refOf(env, call.Arguments[0]); !ok || !sameRef(r, ref) {
		return "", false
	}
	lit, ok := litExpr.(*ast.StringLiteral)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

func literalType(e ast.Expression, env *Env) typesystem.Type {
	switch v := e.(type) {
	case *ast.StringLiteral:
		return typesystem.StringConst{Value: v.Value}
	case *ast.IntegerLiteral:
		return typesystem.IntConst{Value: v.Value}
	case *ast.BooleanLiteral:
		return typesystem.BoolConst{Value: v.Value}
	case *ast.NilLiteral:
		return typesystem.Nil
	default:
		return nil
	}
}

func refOf(env *Env, e ast.Expression) (infercache.VarRefId, bool) {
	if env == nil || env.RefOf == nil {
		return infercache.VarRefId{}, false
	}
	return env.RefOf(e)
}
