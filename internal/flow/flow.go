// Package flow implements the flow-sensitive narrowing pipeline (spec.md
// §4.7): a per-closure flow graph, propagation of truthiness/equality/
// "type()" assertions through branches, `@cast`-style tag application,
// and a branch-coverage-aware join at merge points.
//
// Grounded on the teacher's jump/label resolution walker in
// internal/analyzer/analyzer.go (single forward pass building a graph of
// program points reachable from each statement) generalized from "which
// statements does this label reach" to "what is this variable's type at
// this program point", per
// original_source/crates/.../compilation/analyzer/flow/build_flow_tree.rs
// and .../semantic/infer/narrow/get_type_at_flow.rs (see DESIGN.md).
package flow

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/synid"
	"github.com/funvibe/funxy/internal/typesystem"
)

// NodeKind discriminates a flow-graph vertex (spec.md §4.7).
type NodeKind uint8

const (
	Start NodeKind = iota
	Unreachable
	DeclPosition
	Assignment
	TrueCondition
	FalseCondition
	BranchLabel
	NamedLabel
	LoopLabel
	Break
	Return
	ForIStat
	TagCast
)

// CastKind discriminates the four `@cast` operator forms (spec.md §4.7
// "TagCast: apply the user's @cast operators").
type CastKind uint8

const (
	CastUnionIn CastKind = iota // +T
	CastRemove                  // -T
	CastNullable                // +?
	CastForce                   // T (replace outright)
)

// CastOp is one `@cast` application.
type CastOp struct {
	Kind CastKind
	Type typesystem.Type
}

// Node is one vertex of a FlowTree. Antecedents model the edges a
// narrowing walk travels backwards along (spec.md §4.7 "each has zero or
// more antecedent edges").
type Node struct {
	Kind        NodeKind
	Id          int64
	Antecedents []*Node

	// Var ref this node concerns, when relevant (Assignment, DeclPosition).
	VarRef infercache.VarRefId

	// Assignment payload.
	AssignValue ast.Expression // RHS expression; nil for a pattern slot with no direct value
	AssignIndex int            // destructuring position, 0 if a single target
	AssignCount int            // total destructuring targets, 1 if a single target

	// TrueCondition/FalseCondition payload.
	Cond ast.Expression

	// NamedLabel payload.
	Label string

	// TagCast payload.
	Cast CastOp

	// DeclPosition payload: the variable's declared (unnarrowed) type.
	DeclaredType typesystem.Type
}

// FlowTree is the per-closure/chunk flow graph (spec.md §4.7).
type FlowTree struct {
	nodes  []*Node
	nextID int64
}

// New creates an empty tree with a single Start node.
func New() (*FlowTree, *Node) {
	t := &FlowTree{}
	start := t.newNode(Start)
	return t, start
}

func (t *FlowTree) newNode(kind NodeKind, antecedents ...*Node) *Node {
	n := &Node{Kind: kind, Id: t.nextID, Antecedents: antecedents}
	t.nextID++
	t.nodes = append(t.nodes, n)
	return n
}

// NodeCount reports how many nodes the tree holds (used by tests).
func (t *FlowTree) NodeCount() int { return len(t.nodes) }

// VarRefForExpr computes the VarRefId spec.md §4.7 defines for a use of
// expr: a local's DeclId when known, otherwise the canonical text of a
// global/dotted path, otherwise the expression's own syntax id (for an
// arbitrary `@as`-cast target). decl, when non-zero, is the resolved
// local declaration; name is the canonical textual identity to fall back
// on (e.g. a global name or a rendered dotted path).
func VarRefForExpr(reg *synid.Registry, expr ast.Expression, decl *ids.DeclId, name string) infercache.VarRefId {
	if decl != nil {
		return infercache.VarRefId{Kind: infercache.VarRefDecl, Decl: *decl}
	}
	if name != "" {
		return infercache.VarRefId{Kind: infercache.VarRefName, Name: name}
	}
	return infercache.VarRefId{Kind: infercache.VarRefSyntax, SynId: reg.Id(expr)}
}
