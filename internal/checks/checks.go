// Package checks implements the diagnostic checks spec.md §2's
// "Diagnostic checks" row names: param-type check, undefined-field
// check, type-not-match check, each re-using internal/compat's
// directional checker through internal/semantic.
//
// Grounded on internal/diagnostics' DiagnosticError shape plus the
// teacher's analyzer.walker.addError/getErrors dedup-by-(line,col,code)
// idiom (internal/analyzer/analyzer.go); check semantics follow
// original_source/.../diagnostic/checker/param_type_check.rs, adapted
// to this CST's lack of a colon-call distinction at a call site (see
// internal/infer/call.go's isColonCall note).
package checks

import (
	"fmt"
	"sort"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/semantic"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Check is one diagnostic pass over a file's root.
type Check func(m *semantic.Model, root *ast.Program) []*diagnostics.DiagnosticError

// All is the default check set (spec.md §2's diagnostic row).
var All = []Check{ParamTypeCheck, UndefinedFieldCheck, TypeNotMatchCheck}

// Run applies every check in checks and returns the deduplicated,
// position-sorted result, matching analyzer.walker.getErrors.
func Run(m *semantic.Model, root *ast.Program, chks []Check) []*diagnostics.DiagnosticError {
	bySlot := make(map[string]*diagnostics.DiagnosticError)
	for _, c := range chks {
		for _, err := range c(m, root) {
			key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
			bySlot[key] = err
		}
	}
	out := make([]*diagnostics.DiagnosticError, 0, len(bySlot))
	for _, err := range bySlot {
		out = append(out, err)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Token.Line != out[j].Token.Line {
			return out[i].Token.Line < out[j].Token.Line
		}
		return out[i].Token.Column < out[j].Token.Column
	})
	return out
}

// ParamTypeCheck implements spec.md §2's param-type check: every call
// expression's argument types are checked against the resolved
// overload's parameter types (param_type_check.rs's
// check_call_expr_new, simplified for a CST with no colon/dot call
// distinction).
func ParamTypeCheck(m *semantic.Model, root *ast.Program) []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	walkProgram(root, func(e ast.Expression) {
		call, ok := e.(*ast.CallExpression)
		if !ok {
			return
		}
		out = append(out, checkCall(m, call)...)
	})
	return out
}

func checkCall(m *semantic.Model, call *ast.CallExpression) []*diagnostics.DiagnosticError {
	calleeType := m.InferExpr(call.Function)
	fn, ok := m.InferCallExprFunc(calleeType)
	if !ok {
		return nil
	}

	params := fn.Params
	if fn.IsColonDefine {
		// this CST never supplies a colon call site (internal/infer's
		// isColonCall note); a colon-defined callee's self slot is always
		// implicit, so it's dropped from the checked parameter list rather
		// than demanding callers supply it.
		if len(params) > 0 {
			params = params[1:]
		}
	}

	var out []*diagnostics.DiagnosticError
	for i, p := range params {
		if fn.IsVariadic && i == len(params)-1 {
			for j := i; j < len(call.Arguments); j++ {
				out = append(out, checkArg(m, fn.VariadicType, call.Arguments[j])...)
			}
			break
		}
		if i >= len(call.Arguments) {
			break
		}
		out = append(out, checkArg(m, p.Type, call.Arguments[i])...)
	}
	return out
}

func checkArg(m *semantic.Model, paramType typesystem.Type, arg ast.Expression) []*diagnostics.DiagnosticError {
	if paramType == nil {
		return nil
	}
	argType := m.InferExpr(arg)
	result := m.TypeCheck(paramType, argType)
	if result.Kind == compat.Ok {
		return nil
	}
	return []*diagnostics.DiagnosticError{paramTypeDiagnostic(arg.GetToken(), paramType, argType, result)}
}

// paramTypeDiagnostic mirrors param_type_check.rs's
// add_type_check_diagnostic: a reasoned failure quotes the checker's
// own explanation, an unreasoned one quotes both rendered types.
func paramTypeDiagnostic(tok token.Token, paramType, argType typesystem.Type, result compat.Result) *diagnostics.DiagnosticError {
	if result.Kind == compat.TypeNotMatchWithReason && result.Reason != "" {
		return diagnostics.NewAnalyzerError(diagnostics.ErrA003, tok, result.Reason)
	}
	return diagnostics.NewAnalyzerError(diagnostics.ErrA005, tok, paramType.String(), argType.String())
}

// UndefinedFieldCheck implements spec.md §2's undefined-field check:
// every member/index access on a non-Any, non-Unknown base whose key
// doesn't resolve to a member is reported (member/find_members.rs and
// member/infer_member_for_key.rs's "no match" path).
func UndefinedFieldCheck(m *semantic.Model, root *ast.Program) []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	walkProgram(root, func(e ast.Expression) {
		switch v := e.(type) {
		case *ast.MemberExpression:
			if v.Member == nil || v.IsOptional {
				return
			}
			base := m.InferExpr(v.Left)
			if isOpaque(base) {
				return
			}
			if _, found := lookupMember(m, base, typesystem.NameKey(v.Member.Value)); !found {
				out = append(out, diagnostics.NewAnalyzerError(diagnostics.ErrA006, v.Member.Token, v.Member.Value))
			}
		case *ast.IndexExpression:
			key, ok := literalIndexKey(v.Index)
			if !ok {
				return
			}
			base := m.InferExpr(v.Left)
			if isOpaque(base) {
				return
			}
			if _, found := lookupMember(m, base, key); !found {
				out = append(out, diagnostics.NewAnalyzerError(diagnostics.ErrA006, v.GetToken(), describeKey(key)))
			}
		}
	})
	return out
}

func lookupMember(m *semantic.Model, base typesystem.Type, key typesystem.MemberKey) (typesystem.Type, bool) {
	for k, info := range m.GetMemberInfoMap(base) {
		if k == key {
			return info.Type, true
		}
	}
	return nil, false
}

func literalIndexKey(k ast.Expression) (typesystem.MemberKey, bool) {
	switch v := k.(type) {
	case *ast.StringLiteral:
		return typesystem.NameKey(v.Value), true
	case *ast.IntegerLiteral:
		return typesystem.IntKey(v.Value), true
	default:
		return typesystem.MemberKey{}, false
	}
}

func describeKey(k typesystem.MemberKey) string {
	switch k.Kind {
	case typesystem.KeyName:
		return k.Name
	case typesystem.KeyInteger:
		return fmt.Sprintf("%d", k.Int)
	default:
		return "?"
	}
}

// isOpaque reports whether base is permissive enough that a missing
// member can't be blamed on the program (spec.md §7 "downstream checks
// either pass (permissive)...").
func isOpaque(t typesystem.Type) bool {
	switch t {
	case typesystem.Unknown, typesystem.Any:
		return true
	default:
		return false
	}
}

// TypeNotMatchCheck implements spec.md §2's type-not-match check: an
// assignment's RHS type is checked against its target's doc-declared
// type when one exists (re-uses internal/compat, as spec.md says).
func TypeNotMatchCheck(m *semantic.Model, root *ast.Program) []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	walkProgram(root, func(e ast.Expression) {
		switch v := e.(type) {
		case *ast.AssignExpression:
			out = append(out, checkAssignTarget(m, v.Left, v.Value)...)
		}
	})
	return out
}

func checkAssignTarget(m *semantic.Model, target, value ast.Expression) []*diagnostics.DiagnosticError {
	declared, ok := m.DeclaredTypeOf(target)
	if !ok {
		return nil
	}
	valueType := m.InferExpr(value)
	result := m.TypeCheck(declared, valueType)
	if result.Kind == compat.Ok {
		return nil
	}
	if result.Kind == compat.TypeNotMatchWithReason && result.Reason != "" {
		return []*diagnostics.DiagnosticError{diagnostics.NewAnalyzerError(diagnostics.ErrA003, target.GetToken(), result.Reason)}
	}
	return []*diagnostics.DiagnosticError{diagnostics.NewAnalyzerError(diagnostics.ErrA005, target.GetToken(), declared.String(), valueType.String())}
}
