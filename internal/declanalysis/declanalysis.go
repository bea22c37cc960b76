// Package declanalysis walks a parsed Program and populates a db.Index's
// decl tree, signature index, member index, type index and global index.
// spec.md §1 lists the doc-tag parser that feeds declarations into the
// db as an assumed-given external collaborator; nothing in the CORE
// packages builds that bridge for a live (non-test) caller, so this
// package is the pragmatic glue cmd/lsp and pkg/diagcli both need to
// turn a parsed file into a usable db.Index.
//
// Grounded on the teacher's two-pass walker shape in
// internal/analyzer/analyzer.go (declare pass, then resolve pass) kept
// as a single declare-only pass, since resolution here happens lazily in
// internal/infer rather than up front.
package declanalysis

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

type tokenHolder interface{ GetToken() token.Token }

func posOf(n tokenHolder) ids.Position {
	tok := n.GetToken()
	return ids.Position{Line: tok.Line, Column: tok.Column}
}

// Analyzer walks one file's Program into one file's slice of a shared
// db.Index. Not safe for concurrent use across files; a caller builds
// one Analyzer per file analysis.
type Analyzer struct {
	Index *db.Index
	File  ids.FileId

	tree      *db.DeclTree
	sigSeq    int
	declSeq   int
	memberSeq int64
}

// nextMemberId mints a fresh MemberId for this file. MemberId identifies
// a member by file plus a synthetic sequence number rather than by
// source position, so every Member registration goes through here.
func (a *Analyzer) nextMemberId() ids.MemberId {
	a.memberSeq++
	return ids.MemberId{File: a.File, SynId: a.memberSeq}
}

// Analyze registers prog's top-level declarations, function signatures
// and type declarations into index, replacing whatever the file
// previously held.
func Analyze(index *db.Index, file ids.FileId, prog *ast.Program) *db.DeclTree {
	a := &Analyzer{Index: index, File: file}
	index.RemoveFile(file)

	end := ids.Position{Line: 1 << 30, Column: 0}
	a.tree = db.NewDeclTree(file, ids.TextRange{Start: ids.Position{Line: 0, Column: 0}, End: end})
	index.DeclTrees[file] = a.tree

	for _, s := range prog.Statements {
		a.statement(a.tree.Root, s, true)
	}
	return a.tree
}

// nextPos synthesizes a strictly-increasing position for declarations
// that need a stable identity but have no natural token of their own
// (e.g. a synthetic self parameter), since ids.DeclId is keyed by
// (File, Pos).
func (a *Analyzer) nextPos() ids.Position {
	a.declSeq++
	return ids.Position{Line: -1, Column: a.declSeq}
}

// statement walks one statement, registering declarations into scope s.
// atTop marks top-level statements, whose bindings also populate
// GlobalIndex (spec.md §3.2: a dynamic language's free names resolve
// through a single global namespace when no enclosing local exists).
func (a *Analyzer) statement(s *db.Scope, stmt ast.Statement, atTop bool) {
	switch v := stmt.(type) {
	case *ast.ConstantDeclaration:
		a.constantDecl(s, v, atTop)
	case *ast.FunctionStatement:
		a.functionStatement(s, v, atTop)
	case *ast.TypeDeclarationStatement:
		a.typeDeclaration(v)
	case *ast.TraitDeclaration:
		a.traitDeclaration(v)
	case *ast.ExpressionStatement:
		a.expression(s, v.Expression)
	case *ast.ReturnStatement:
		if v.Value != nil {
			a.expression(s, v.Value)
		}
	case *ast.BreakStatement:
		if v.Value != nil {
			a.expression(s, v.Value)
		}
	}
}

func (a *Analyzer) constantDecl(s *db.Scope, v *ast.ConstantDeclaration, atTop bool) {
	if v.Value != nil {
		a.expression(s, v.Value)
	}
	if v.Name == nil {
		return
	}
	var declared typesystem.Type
	if v.TypeAnnotation != nil {
		declared = a.convertType(v.TypeAnnotation)
	}
	declId := ids.DeclId{File: a.File, Pos: posOf(v)}
	decl := &db.Decl{Id: declId, Name: v.Name.Value, DeclaredType: declared}
	a.tree.AddDecl(s, decl)
	if atTop {
		a.Index.Globals.Add(v.Name.Value, declId)
	}
}

// functionStatement registers the function's call signature and, for a
// receiver-bearing (extension-method) definition, a Member entry on the
// receiver's nominal type plus a ScopeMethod child scope so "self"
// resolves through MethodReceiver (spec.md §3.2 Method-scope rule).
func (a *Analyzer) functionStatement(s *db.Scope, v *ast.FunctionStatement, atTop bool) {
	fnType := a.functionType(v.Parameters, v.ReturnType, v.Receiver != nil)

	sigId := ids.SignatureId{File: a.File, Pos: posOf(v)}
	sig := &db.Signature{
		Id:            sigId,
		IsColonDefine: v.Receiver != nil,
		ReturnType:    fnType.Return,
		ResolveReturn: db.DocResolved,
	}
	if v.ReturnType == nil {
		sig.ResolveReturn = db.InferResolved
	}
	for _, p := range v.Parameters {
		sig.Params = append(sig.Params, paramName(p))
	}
	a.Index.Signatures.Add(sig)

	bodyScope := a.bodyScope(s, v.Receiver, v.Parameters)
	if v.Body != nil {
		a.block(bodyScope, v.Body)
	}

	if v.Receiver != nil {
		a.registerReceiverMethod(v, fnType)
		return
	}

	if v.Name == nil {
		return
	}
	declId := ids.DeclId{File: a.File, Pos: posOf(v)}
	decl := &db.Decl{Id: declId, Name: v.Name.Value, DeclaredType: typesystem.DocFunction{Fn: fnType}}
	a.tree.AddDecl(s, decl)
	if atTop {
		a.Index.Globals.Add(v.Name.Value, declId)
	}
}

// registerReceiverMethod attaches `fun (recv: T) name(...)` as a Member
// on T's nominal type decl, the shape spec.md §4.9 expects a colon-call
// method to resolve through.
func (a *Analyzer) registerReceiverMethod(v *ast.FunctionStatement, fnType typesystem.FunctionType) {
	if v.Name == nil {
		return
	}
	recvId := a.namedTypeDeclId(v.Receiver.Type)
	if recvId == nil {
		return
	}
	a.Index.Members.Add(&db.Member{
		Id:      a.nextMemberId(),
		File:    a.File,
		Owner:   db.TypeOwner(*recvId),
		Key:     typesystem.NameKey(v.Name.Value),
		Feature: "method",
		Type:    typesystem.DocFunction{Fn: fnType},
	})
}

// bodyScope creates the scope a function body's statements resolve
// through: a ScopeMethod when the function has a receiver (so "self"
// resolves via MethodReceiver instead of a local decl), ScopeFunction
// otherwise, with each parameter registered as a local.
func (a *Analyzer) bodyScope(parent *db.Scope, recv *ast.Parameter, params []*ast.Parameter) *db.Scope {
	kind := db.ScopeFunction
	if recv != nil {
		kind = db.ScopeMethod
	}
	scope := a.tree.AddScope(parent, kind, fullRange())
	if recv != nil {
		if recvId := a.namedTypeDeclId(recv.Type); recvId != nil {
			scope.MethodReceiver = typesystem.Ref{Id: *recvId}
		} else if recv.Type != nil {
			scope.MethodReceiver = a.convertType(recv.Type)
		}
	}
	for _, p := range params {
		if p.Name == nil || p.IsIgnored {
			continue
		}
		var declared typesystem.Type
		if p.Type != nil {
			declared = a.convertType(p.Type)
		}
		a.tree.AddDecl(scope, &db.Decl{
			Id:           ids.DeclId{File: a.File, Pos: posOf(p.Name)},
			Name:         p.Name.Value,
			DeclaredType: declared,
		})
	}
	return scope
}

func fullRange() ids.TextRange {
	return ids.TextRange{Start: ids.Position{Line: 0, Column: 0}, End: ids.Position{Line: 1 << 30, Column: 0}}
}

func paramName(p *ast.Parameter) string {
	if p.Name == nil {
		return "_"
	}
	return p.Name.Value
}

// functionType converts a parameter/return-type list to a
// typesystem.FunctionType (spec.md §3.1 FunctionType payload).
func (a *Analyzer) functionType(params []*ast.Parameter, ret ast.Type, colonDefine bool) typesystem.FunctionType {
	out := typesystem.FunctionType{IsColonDefine: colonDefine}
	for _, p := range params {
		pt := typesystem.Any
		if p.Type != nil {
			pt = a.convertType(p.Type)
		}
		if p.IsVariadic {
			out.IsVariadic = true
			out.VariadicType = pt
			continue
		}
		out.Params = append(out.Params, typesystem.Param{
			Name:     paramName(p),
			Type:     pt,
			Optional: p.Default != nil,
		})
	}
	if ret != nil {
		out.Return = a.convertType(ret)
	} else {
		out.Return = typesystem.Unknown
	}
	return out
}

// typeDeclaration registers a `type alias X = T` or ADT `type X = A | B`
// statement as a nominal Def/Ref pair in TypeIndex, recording the
// alias's origin type so internal/compat's alias-unwrap branch (spec.md
// §4.8) has something to expand.
func (a *Analyzer) typeDeclaration(v *ast.TypeDeclarationStatement) {
	if v.Name == nil {
		return
	}
	declId := ids.TypeDeclId(v.Name.Value)
	a.Index.Types.RegisterDecl(declId, a.File)
	a.Index.Types.Names[declId] = v.Name.Value

	if v.IsAlias && v.TargetType != nil {
		origin := a.convertType(v.TargetType)
		a.Index.Types.Kinds[declId] = db.TypeKindAlias
		a.Index.Types.AliasOrigins[declId] = origin
		return
	}

	// An ADT's constructors become members on its own nominal type, one
	// per constructor, typed as the constructor's DocFunction shape (or
	// the bare type itself for a zero-arg constructor).
	a.Index.Types.Kinds[declId] = db.TypeKindClass
	for _, ctor := range v.Constructors {
		if ctor.Name == nil {
			continue
		}
		var t typesystem.Type = typesystem.Ref{Id: declId}
		if len(ctor.Parameters) > 0 {
			fn := typesystem.FunctionType{Return: typesystem.Ref{Id: declId}}
			for _, p := range ctor.Parameters {
				fn.Params = append(fn.Params, typesystem.Param{Type: a.convertType(p)})
			}
			t = typesystem.DocFunction{Fn: fn}
		}
		a.Index.Members.Add(&db.Member{
			Id:      a.nextMemberId(),
			File:    a.File,
			Owner:   db.TypeOwner(declId),
			Key:     typesystem.NameKey(ctor.Name.Value),
			Feature: "constructor",
			Type:    t,
		})
	}
}

// traitDeclaration registers a trait as a nominal type whose method
// signatures become Members, mirroring how an EmmyLua class's declared
// methods populate MemberIndex (spec.md §3.2 MemberIndex).
func (a *Analyzer) traitDeclaration(v *ast.TraitDeclaration) {
	if v.Name == nil {
		return
	}
	declId := ids.TypeDeclId(v.Name.Value)
	a.Index.Types.RegisterDecl(declId, a.File)
	a.Index.Types.Names[declId] = v.Name.Value
	a.Index.Types.Kinds[declId] = db.TypeKindClass

	var supers []typesystem.Type
	for _, st := range v.SuperTraits {
		supers = append(supers, a.convertType(st))
	}
	if len(supers) > 0 {
		a.Index.Types.Supers[declId] = supers
	}

	for _, m := range v.Signatures {
		if m.Name == nil {
			continue
		}
		fn := a.functionType(m.Parameters, m.ReturnType, m.Receiver != nil)
		a.Index.Members.Add(&db.Member{
			Id:      a.nextMemberId(),
			File:    a.File,
			Owner:   db.TypeOwner(declId),
			Key:     typesystem.NameKey(m.Name.Value),
			Feature: "method",
			Type:    typesystem.DocFunction{Fn: fn},
		})
	}
}

// block walks a function/if/for body, descending into nested
// expressions that can themselves introduce decls (nested FunctionLiteral
// closures, nested constant decls inside the block).
func (a *Analyzer) block(s *db.Scope, body *ast.BlockStatement) {
	if body == nil {
		return
	}
	inner := a.tree.AddScope(s, db.ScopeBlock, fullRange())
	for _, stmt := range body.Statements {
		a.statement(inner, stmt, false)
	}
}

// expression descends into an expression looking for nested
// declarations a diagnostic check or hover request needs to resolve:
// function literals (closures), if/for bodies, and plain recursion into
// operand expressions.
func (a *Analyzer) expression(s *db.Scope, e ast.Expression) {
	switch v := e.(type) {
	case *ast.FunctionLiteral:
		a.functionLiteral(s, v)
	case *ast.IfExpression:
		a.expression(s, v.Condition)
		a.block(s, v.Consequence)
		a.block(s, v.Alternative)
	case *ast.ForExpression:
		scope := s
		if v.ItemName != nil {
			scope = a.tree.AddScope(s, db.ScopeForRange, fullRange())
			a.tree.AddDecl(scope, &db.Decl{
				Id:   ids.DeclId{File: a.File, Pos: posOf(v.ItemName)},
				Name: v.ItemName.Value,
			})
		}
		if v.Iterable != nil {
			a.expression(s, v.Iterable)
		}
		a.block(scope, v.Body)
	case *ast.CallExpression:
		a.expression(s, v.Function)
		for _, arg := range v.Arguments {
			a.expression(s, arg)
		}
	case *ast.MemberExpression:
		a.expression(s, v.Left)
	case *ast.IndexExpression:
		a.expression(s, v.Left)
		a.expression(s, v.Index)
	case *ast.RecordLiteral:
		for _, f := range v.Fields {
			a.expression(s, f)
		}
	case *ast.ListLiteral:
		for _, el := range v.Elements {
			a.expression(s, el)
		}
	case *ast.TupleLiteral:
		for _, el := range v.Elements {
			a.expression(s, el)
		}
	}
}

func (a *Analyzer) functionLiteral(s *db.Scope, v *ast.FunctionLiteral) {
	fnType := a.functionType(v.Parameters, v.ReturnType, false)
	sigId := ids.SignatureId{File: a.File, Pos: posOf(v)}
	sig := &db.Signature{Id: sigId, ReturnType: fnType.Return, ResolveReturn: db.DocResolved}
	if v.ReturnType == nil {
		sig.ResolveReturn = db.InferResolved
	}
	for _, p := range v.Parameters {
		sig.Params = append(sig.Params, paramName(p))
	}
	a.Index.Signatures.Add(sig)

	bodyScope := a.bodyScope(s, nil, v.Parameters)
	a.block(bodyScope, v.Body)
}

// namedTypeDeclId resolves a simple `NamedType` annotation to the
// TypeDeclId its name identifies. TypeDeclId's identity is the nominal
// type's qualified name itself (spec.md's "identity-based typing
// referenced by declaration id"), so this needs no lookup against an
// already-registered decl: a Ref built from a name the current file
// hasn't (yet, or ever) declared is simply a Ref without Kind/Supers
// metadata, which compat/members treat as an unresolved nominal type
// rather than an error.
func (a *Analyzer) namedTypeDeclId(t ast.Type) *ids.TypeDeclId {
	nt, ok := t.(*ast.NamedType)
	if !ok || nt.Name == nil {
		return nil
	}
	id := ids.TypeDeclId(nt.Name.Value)
	return &id
}

// convertType maps a parsed type annotation onto the structural
// typesystem.Type lattice (spec.md §3.1). Nominal annotations resolve
// through namedTypeDeclId, which turns any non-primitive name into a
// nominal id without checking for a registered type decl, since
// declaration order within a file isn't guaranteed to put the type decl
// first.
func (a *Analyzer) convertType(t ast.Type) typesystem.Type {
	switch v := t.(type) {
	case nil:
		return typesystem.Unknown
	case *ast.NamedType:
		return a.namedType(v)
	case *ast.TupleType:
		elems := make([]typesystem.Type, len(v.Types))
		for i, e := range v.Types {
			elems[i] = a.convertType(e)
		}
		return typesystem.Tuple{Elems: elems}
	case *ast.RecordType:
		fields := make(map[typesystem.MemberKey]typesystem.Type, len(v.Fields))
		for name, ft := range v.Fields {
			fields[typesystem.NameKey(name)] = a.convertType(ft)
		}
		return typesystem.Object{Fields: fields}
	case *ast.FunctionType:
		fn := typesystem.FunctionType{}
		for _, p := range v.Parameters {
			fn.Params = append(fn.Params, typesystem.Param{Type: a.convertType(p)})
		}
		if v.ReturnType != nil {
			fn.Return = a.convertType(v.ReturnType)
		} else {
			fn.Return = typesystem.Unknown
		}
		return typesystem.DocFunction{Fn: fn}
	case *ast.ForallType:
		return a.convertType(v.Type)
	case *ast.UnionType:
		types := make([]typesystem.Type, len(v.Types))
		for i, e := range v.Types {
			types[i] = a.convertType(e)
		}
		return typesystem.NormalizeUnion(types)
	default:
		return typesystem.Unknown
	}
}

var primByName = map[string]typesystem.Type{
	"Int":     typesystem.Integer,
	"Integer": typesystem.Integer,
	"Float":   typesystem.Number,
	"Number":  typesystem.Number,
	"String":  typesystem.String,
	"Bool":    typesystem.Boolean,
	"Boolean": typesystem.Boolean,
	"Nil":     typesystem.Nil,
	"Any":     typesystem.Any,
	"Unknown": typesystem.Unknown,
	"Table":   typesystem.TableType,
}

func (a *Analyzer) namedType(v *ast.NamedType) typesystem.Type {
	if v.Name == nil {
		return typesystem.Unknown
	}
	if prim, ok := primByName[v.Name.Value]; ok {
		return prim
	}
	if recvId := a.namedTypeDeclId(v); recvId != nil {
		base := typesystem.Ref{Id: *recvId}
		if len(v.Args) == 0 {
			return base
		}
		params := make([]typesystem.Type, len(v.Args))
		for i, arg := range v.Args {
			params[i] = a.convertType(arg)
		}
		return typesystem.Generic{Base: *recvId, Params: params}
	}
	if v.Name.Value == "List" && len(v.Args) == 1 {
		return typesystem.Array{Elem: a.convertType(v.Args[0])}
	}
	return typesystem.Unknown
}
