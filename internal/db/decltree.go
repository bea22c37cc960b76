// Package db is the analyzer's interned, append-only index set: decl
// trees, reference/member/signature/operator/type/module/global/property
// indexes, all keyed by the stable identities in internal/ids, as
// specified in spec.md §3.2-§3.3.
//
// The indexing idiom is grounded on the teacher's internal/symbols split
// (one file per concern) and its sync.Once-guarded prelude construction,
// generalized from a single flat symbol table to the per-kind index set
// this spec calls for.
package db

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// ScopeKind discriminates a DeclTree scope node (spec.md §3.2 DeclTree).
type ScopeKind uint8

const (
	ScopeRoot ScopeKind = iota
	ScopeLocalOrAssign
	ScopeFunction
	ScopeMethod
	ScopeRepeat
	ScopeForRange
	ScopeBlock
)

// Decl is a single binding introduced in a scope.
type Decl struct {
	Id           ids.DeclId
	Name         string
	DeclaredType typesystem.Type // from a doc tag; nil if absent
	InferredType typesystem.Type // filled in by the owning analyzer; nil until resolved
	Resolved     bool
}

// Scope is one node of a file's DeclTree.
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope
	Range    ids.TextRange
	Decls    []*Decl

	// MethodReceiver is set on a ScopeMethod node to the owning class's
	// nominal type, so "self" inside the scope resolves without a local
	// decl (spec.md §3.2 "Method scope suppresses resolution of self").
	MethodReceiver typesystem.Type

	// RepeatUntilRange is set on a ScopeRepeat node; locals declared in
	// the loop body remain visible while evaluating the until-condition
	// (spec.md §3.2 "Repeat at level 0: descend into the until body").
	RepeatUntilRange ids.TextRange
}

func (s *Scope) declBefore(name string, pos ids.Position) (*Decl, bool) {
	var found *Decl
	for _, d := range s.Decls {
		if d.Name != name {
			continue
		}
		if pos.Less(d.Id.Pos) {
			continue
		}
		// last matching decl before pos wins (shadowing within the scope)
		found = d
	}
	return found, found != nil
}

func (s *Scope) contains(pos ids.Position) bool {
	return s.Range.Contains(pos) || pos == s.Range.Start
}

func (s *Scope) innermost(pos ids.Position) *Scope {
	for _, c := range s.Children {
		if c.contains(pos) {
			return c.innermost(pos)
		}
	}
	return s
}

// DeclTree is the per-file scope tree.
type DeclTree struct {
	File ids.FileId
	Root *Scope
}

// NewDeclTree creates an empty tree rooted at a ScopeRoot spanning the
// whole file.
func NewDeclTree(file ids.FileId, fileRange ids.TextRange) *DeclTree {
	return &DeclTree{File: file, Root: &Scope{Kind: ScopeRoot, Range: fileRange}}
}

// AddScope appends a child scope under parent (or the tree root if
// parent is nil) and returns it.
func (t *DeclTree) AddScope(parent *Scope, kind ScopeKind, r ids.TextRange) *Scope {
	if parent == nil {
		parent = t.Root
	}
	s := &Scope{Kind: kind, Parent: parent, Range: r}
	parent.Children = append(parent.Children, s)
	return s
}

// AddDecl registers a declaration in scope s.
func (t *DeclTree) AddDecl(s *Scope, d *Decl) {
	s.Decls = append(s.Decls, d)
}

// FindLocalDecl implements spec.md §3.2's walk rules: starting from the
// innermost scope containing pos, search up the parent chain for a
// declaration of name visible at pos, applying the per-kind overrides at
// the starting level (level 0).
func (t *DeclTree) FindLocalDecl(name string, pos ids.Position) (*Decl, bool) {
	leaf := t.Root.innermost(pos)
	level := 0
	for s := leaf; s != nil; s = s.Parent {
		if s.Kind == ScopeMethod && name == "self" {
			// self never resolves to a local decl; the caller (infer)
			// must walk MethodReceiver instead.
			s = s.Parent
			if s == nil {
				break
			}
		}
		switch {
		case level == 0 && s.Kind == ScopeLocalOrAssign:
			// the RHS of `local x = x` must not see the new x.
		case level == 0 && s.Kind == ScopeForRange:
			// the range expression doesn't see the loop variables.
		default:
			if d, ok := s.declBefore(name, pos); ok {
				return d, true
			}
		}
		if s.Kind == ScopeLocalOrAssign && level == 0 {
			level++
			continue
		}
		level++
	}
	return nil, false
}

// IsSelfInMethod reports whether pos sits inside a ScopeMethod scope and
// returns its receiver type.
func (t *DeclTree) IsSelfInMethod(pos ids.Position) (typesystem.Type, bool) {
	leaf := t.Root.innermost(pos)
	for s := leaf; s != nil; s = s.Parent {
		if s.Kind == ScopeMethod {
			return s.MethodReceiver, s.MethodReceiver != nil
		}
	}
	return nil, false
}
