// Package semantic implements the per-file semantic-model façade
// (spec.md §4.10): a single struct carrying a file's db snapshot, its
// inference cache and root syntax tree, exposing the read-only query
// surface a hover/completion/diagnostics consumer needs without any of
// those consumers having to touch internal/infer, internal/flow or
// internal/members directly.
//
// Grounded on the teacher's Analyzer/walker facade shape
// (internal/analyzer/analyzer.go): one struct owning the symbol table,
// the shared inference context and the per-node type map, generalized
// here to a read-only query facade over internal/db instead of a
// mutating two-pass walker.
package semantic

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/flow"
	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/infer"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/synid"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Info is the result of a hover/go-to-definition query (spec.md §4.10
// get_semantic_info): an expression's static type plus, when the
// expression denotes something with its own declaration, a handle to
// that declaration.
type Info struct {
	Type       typesystem.Type
	SemanticDecl *db.SemanticDeclId
}

// Model is the per-file semantic façade: (db, file_id, cache, root).
type Model struct {
	Index  *db.Index
	File   ids.FileId
	Cache  *infercache.Cache
	Root   *ast.Program
	Source string

	infer *infer.Env
	mem   *members.Env
	flows map[*ast.BlockStatement]*flow.Result
}

// New builds a facade for one file. genEnv/compatEnv/memEnv are the
// shared sub-environments the underlying infer/compat/members layers
// need; a caller normally builds one set of these per db.Index and
// reuses them across every file's Model.
func New(index *db.Index, file ids.FileId, root *ast.Program, source string, reg *synid.Registry, genEnv *generic.Env, compatEnv *compat.Env, memEnv *members.Env) *Model {
	if reg == nil {
		reg = synid.New()
	}
	cache := infercache.New()
	infEnv := &infer.Env{
		Index:  index,
		File:   file,
		Cache:  cache,
		Reg:    reg,
		Gen:    genEnv,
		Compat: compatEnv,
		Mem:    memEnv,
	}
	return &Model{
		Index:  index,
		File:   file,
		Cache:  cache,
		Root:   root,
		Source: source,
		infer:  infEnv,
		mem:    memEnv,
		flows:  make(map[*ast.BlockStatement]*flow.Result),
	}
}

// InferExpr delegates to internal/infer's single entry point.
func (m *Model) InferExpr(e ast.Expression) typesystem.Type {
	return m.infer.InferExpr(e)
}

// InferCallExprFunc collapses a callee's static type to a concrete
// FunctionType, the step a go-to-definition/signature-help request
// over a call's callee needs on its own (spec.md §4.10
// infer_call_expr_func).
func (m *Model) InferCallExprFunc(t typesystem.Type) (typesystem.FunctionType, bool) {
	return m.infer.InferCallExprFunc(t)
}

// GetSemanticInfo implements spec.md §4.10: an expression's type plus,
// when it resolves to something with its own declaration, which one.
func (m *Model) GetSemanticInfo(e ast.Expression) Info {
	t := m.infer.InferExpr(e)
	return Info{Type: t, SemanticDecl: m.resolveDecl(e, t)}
}

func (m *Model) resolveDecl(e ast.Expression, t typesystem.Type) *db.SemanticDeclId {
	switch v := e.(type) {
	case *ast.Identifier:
		return m.resolveIdentifierDecl(v)
	case *ast.MemberExpression:
		return m.resolveMemberDecl(v, t)
	case *ast.IndexExpression:
		return m.resolveIndexDecl(v, t)
	case *ast.FunctionLiteral:
		if sig, ok := t.(typesystem.Signature); ok {
			return &db.SemanticDeclId{Kind: db.SemSignature, Signature: sig.Id}
		}
	}
	return nil
}

func (m *Model) resolveIdentifierDecl(id *ast.Identifier) *db.SemanticDeclId {
	pos := ids.Position{Line: id.Token.Line, Column: id.Token.Column}
	if tree, ok := m.Index.DeclTrees[m.File]; ok {
		if decl, ok := tree.FindLocalDecl(id.Value, pos); ok {
			return &db.SemanticDeclId{Kind: db.SemDecl, Decl: decl.Id}
		}
	}
	if decl, ok := m.Index.Globals.Lookup(id.Value); ok {
		return &db.SemanticDeclId{Kind: db.SemDecl, Decl: decl}
	}
	return nil
}

func (m *Model) resolveMemberDecl(v *ast.MemberExpression, _ typesystem.Type) *db.SemanticDeclId {
	if v.Member == nil {
		return nil
	}
	base := m.infer.InferExpr(v.Left)
	key := typesystem.NameKey(v.Member.Value)
	info, ok := members.FindMemberByKey(base, key, m.mem)
	if !ok {
		return nil
	}
	return info.PropertyOwnerId
}

func (m *Model) resolveIndexDecl(v *ast.IndexExpression, _ typesystem.Type) *db.SemanticDeclId {
	base := m.infer.InferExpr(v.Left)
	var key typesystem.MemberKey
	switch k := v.Index.(type) {
	case *ast.StringLiteral:
		key = typesystem.NameKey(k.Value)
	case *ast.IntegerLiteral:
		key = typesystem.IntKey(k.Value)
	default:
		return nil
	}
	info, ok := members.FindMemberByKey(base, key, m.mem)
	if !ok {
		return nil
	}
	return info.PropertyOwnerId
}

// DeclaredTypeOf returns the doc-declared type of whatever e's target
// decl is (as opposed to InferExpr's declared-or-inferred result),
// for a caller (internal/checks) that specifically wants to compare an
// assignment's RHS against an explicit annotation rather than against
// whatever the decl's type happened to infer to.
func (m *Model) DeclaredTypeOf(e ast.Expression) (typesystem.Type, bool) {
	id, ok := e.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	pos := ids.Position{Line: id.Token.Line, Column: id.Token.Column}
	if tree, ok := m.Index.DeclTrees[m.File]; ok {
		if decl, ok := tree.FindLocalDecl(id.Value, pos); ok && decl.DeclaredType != nil {
			return decl.DeclaredType, true
		}
	}
	return nil, false
}

// TypeCheck wraps internal/compat's directional compatibility check
// (spec.md §4.10 type_check; spec.md §4.8).
func (m *Model) TypeCheck(source, compact typesystem.Type) compat.Result {
	return compat.Check(source, compact, m.infer.Compat)
}

// FindMembers wraps internal/members' lattice walk (spec.md §4.9/§4.10
// find_members).
func (m *Model) FindMembers(t typesystem.Type) []members.Info {
	return members.FindMembers(t, m.mem)
}

// GetMemberInfoMap implements spec.md §4.10 get_member_info_map: the
// same walk as FindMembers, collapsed to one entry per key (the first
// match wins, mirroring FindMemberByKey's short-circuit order). Only
// Name/Int keys are native Go map keys here; an ExprType key can carry
// a non-comparable type (Union, Tuple, Object...) that would panic as
// a map key, so those members are left out of the map — a caller
// needing an expression-typed key goes through FindMemberByKey instead.
func (m *Model) GetMemberInfoMap(t typesystem.Type) map[typesystem.MemberKey]members.Info {
	out := make(map[typesystem.MemberKey]members.Info)
	for _, info := range m.FindMembers(t) {
		if info.Key.Kind == typesystem.KeyExprType {
			continue
		}
		if _, seen := out[info.Key]; !seen {
			out[info.Key] = info
		}
	}
	return out
}

// GetDocument returns this file's source text (spec.md §4.10
// get_document). The façade is handed its own file's text at
// construction; a multi-file caller keeps one Model per open file
// rather than asking one Model to cross files.
func (m *Model) GetDocument() string {
	return m.Source
}

// GetRoot returns this file's parsed syntax tree (spec.md §4.10
// get_root).
func (m *Model) GetRoot() *ast.Program {
	return m.Root
}

// FlowFor builds (and memoizes for the lifetime of this Model) the flow
// graph for one closure/file body, so a hover request can narrow a
// specific identifier occurrence through GetTypeAtFlow.
func (m *Model) FlowFor(body *ast.BlockStatement) *flow.Result {
	if r, ok := m.flows[body]; ok {
		return r
	}
	r := m.infer.BuildFlow(body)
	m.flows[body] = r
	return r
}

// GetTypeAtFlow narrows ref's type at a specific flow-graph position
// (spec.md §4.7), the position-aware consult internal/infer's
// identifier case deliberately leaves to this façade.
func (m *Model) GetTypeAtFlow(ref infercache.VarRefId, node *flow.Node) typesystem.Type {
	return flow.GetTypeAtFlow(ref, node, m.infer.FlowEnv())
}

// RefOf resolves an expression to the VarRefId a flow-graph node would
// carry for it, for a caller that wants to narrow a specific use site.
func (m *Model) RefOf(e ast.Expression) (infercache.VarRefId, bool) {
	return m.infer.FlowEnv().RefOf(e)
}
