package flow

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/infercache"
	"github.com/funvibe/funxy/internal/synid"
)

// Resolver supplies the builder with the one piece of semantic
// information it needs from outside the CST: whether an identifier used
// as a condition/assignment target names a resolved local declaration
// (so narrowing can key off DeclId rather than raw text, spec.md §4.7
// VarRefId).
type Resolver interface {
	ResolveLocal(name string, pos ids.Position) (ids.DeclId, bool)
}

// Result is the product of building a closure's flow graph: the tree
// itself plus, for every statement the builder visited, the node whose
// narrowed types are visible to expressions evaluated directly inside
// that statement (spec.md §4.7's per-program-point antecedent lookup,
// granularised to statement boundaries — sufficient for every use site
// spec.md's scenarios name, since a use is always the direct child of
// some statement in a block).
type Result struct {
	Tree       *FlowTree
	NodeBefore map[ast.Node]*Node
	// BlockEntry additionally exposes the entry node of every block this
	// builder descended into (If branches, for bodies), keyed by the
	// *ast.BlockStatement itself, for callers that want the state at the
	// top of a block rather than before a particular statement in it.
	BlockEntry map[*ast.BlockStatement]*Node
}

// Build constructs the flow graph for a single closure/chunk body
// (spec.md §4.7 "For each closure/chunk, build a flow graph").
func Build(body *ast.BlockStatement, reg *synid.Registry, res Resolver) *Result {
	tree, start := New()
	r := &Result{Tree: tree, NodeBefore: make(map[ast.Node]*Node), BlockEntry: make(map[*ast.BlockStatement]*Node)}
	r.walkBlock(body, start, reg, res)
	return r
}

// walkBlock threads `cur` sequentially through stmts, recording the
// pre-statement node for each, and returns the node reachable after the
// whole block (its "fallthrough" exit). A Return/Break node becomes the
// current node like any other, so statements after it and the returned
// exit chain through it; the builder does not mark them unreachable.
func (r *Result) walkBlock(b *ast.BlockStatement, cur *Node, reg *synid.Registry, res Resolver) *Node {
	if b == nil {
		return cur
	}
	r.BlockEntry[b] = cur
	for _, stmt := range b.Statements {
		r.NodeBefore[stmt] = cur
		cur = r.walkStmt(stmt, cur, reg, res)
	}
	return cur
}

func (r *Result) walkStmt(stmt ast.Statement, cur *Node, reg *synid.Registry, res Resolver) *Node {
	switch s := stmt.(type) {
	case *ast.ConstantDeclaration:
		return r.addAssignment(cur, s.Name, s.Pattern, s.Value, res)

	case *ast.ExpressionStatement:
		return r.walkExprStmt(s.Expression, cur, reg, res)

	case *ast.ReturnStatement:
		n := r.Tree.newNode(Return, cur)
		return n

	case *ast.BreakStatement:
		n := r.Tree.newNode(Break, cur)
		return n

	case *ast.ContinueStatement:
		return cur

	case *ast.FunctionStatement:
		// nested function decls don't themselves narrow the enclosing
		// scope; their own bodies get their own FlowTree, built lazily by
		// whatever infers their closure (spec.md §4.7 is per-closure).
		return cur

	case *ast.BlockStatement:
		return r.walkBlock(s, cur, reg, res)

	default:
		return cur
	}
}

// walkExprStmt handles the statement-positioned expression forms that
// affect flow: assignment, if, for. Anything else is a plain
// fallthrough (spec.md §4.7 nodes only materialize at the shapes it
// names).
func (r *Result) walkExprStmt(e ast.Expression, cur *Node, reg *synid.Registry, res Resolver) *Node {
	switch expr := e.(type) {
	case *ast.AssignExpression:
		return r.addAssignment(cur, identFromLValue(expr.Left), nil, expr.Value, res)

	case *ast.PatternAssignExpression:
		return r.addAssignment(cur, nil, expr.Pattern, expr.Value, res)

	case *ast.IfExpression:
		return r.walkIf(expr, cur, reg, res)

	case *ast.ForExpression:
		return r.walkFor(expr, cur, reg, res)

	case *ast.BlockStatement:
		return r.walkBlock(expr, cur, reg, res)

	default:
		return cur
	}
}

func identFromLValue(e ast.Expression) *ast.Identifier {
	if id, ok := e.(*ast.Identifier); ok {
		return id
	}
	return nil
}

// addAssignment records an Assignment node for a single-target binding.
// Pattern-destructured bindings (spec.md's n-to-m assignment) each get
// their own Assignment node sharing the same RHS expression and an
// AssignIndex/AssignCount pair so the narrowing pass can spread a
// MultiReturn across them (spec.md §4.7 "using multi-return spreading
// when the assignment was n-to-m").
func (r *Result) addAssignment(cur *Node, name *ast.Identifier, pat ast.Pattern, value ast.Expression, res Resolver) *Node {
	targets := flattenPatternTargets(name, pat)
	if len(targets) == 0 {
		return cur
	}
	n := cur
	for i, t := range targets {
		var ref infercache.VarRefId
		if t != "" {
			if res != nil {
				if d, ok := res.ResolveLocal(t, pos(value)); ok {
					ref = infercache.VarRefId{Kind: infercache.VarRefDecl, Decl: d}
				} else {
					ref = infercache.VarRefId{Kind: infercache.VarRefName, Name: t}
				}
			} else {
				ref = infercache.VarRefId{Kind: infercache.VarRefName, Name: t}
			}
		}
		n = r.Tree.newNode(Assignment, n)
		n.VarRef = ref
		n.AssignValue = value
		n.AssignIndex = i
		n.AssignCount = len(targets)
	}
	return n
}

func pos(e ast.Expression) ids.Position {
	if e == nil {
		return ids.Position{}
	}
	tok := e.GetToken()
	return ids.Position{Line: tok.Line, Column: tok.Column}
}

// flattenPatternTargets extracts the flat list of bound names from a
// single identifier or a (possibly nested) destructuring pattern, in
// positional order; a wildcard/ignored slot contributes an empty name so
// its position is preserved without being narrowable.
func flattenPatternTargets(name *ast.Identifier, pat ast.Pattern) []string {
	if name != nil {
		return []string{name.Value}
	}
	var out []string
	var walk func(p ast.Pattern)
	walk = func(p ast.Pattern) {
		switch v := p.(type) {
		case *ast.IdentifierPattern:
			out = append(out, v.Value)
		case *ast.WildcardPattern:
			out = append(out, "")
		case *ast.TuplePattern:
			for _, e := range v.Elements {
				walk(e)
			}
		case *ast.ListPattern:
			for _, e := range v.Elements {
				walk(e)
			}
		case *ast.SpreadPattern:
			walk(v.Pattern)
		default:
			out = append(out, "")
		}
	}
	if pat != nil {
		walk(pat)
	}
	return out
}

// walkIf builds TrueCondition/FalseCondition antecedents for each branch
// and joins them at a BranchLabel (spec.md §4.7).
func (r *Result) walkIf(ie *ast.IfExpression, cur *Node, reg *synid.Registry, res Resolver) *Node {
	trueEntry := r.Tree.newNode(TrueCondition, cur)
	trueEntry.Cond = ie.Condition
	trueExit := r.walkBlock(ie.Consequence, trueEntry, reg, res)

	falseEntry := r.Tree.newNode(FalseCondition, cur)
	falseEntry.Cond = ie.Condition
	falseExit := falseEntry
	if ie.Alternative != nil {
		falseExit = r.walkBlock(ie.Alternative, falseEntry, reg, res)
	}

	join := r.Tree.newNode(BranchLabel, trueExit, falseExit)
	return join
}

// walkFor threads the loop body through a LoopLabel back-edge; the body
// is walked twice conceptually (spec.md's cache InProgress sentinel makes
// the second pass converge) but we only need one physical pass here
// since get_type_at_flow recomputes narrowing lazily per query, not
// eagerly per build.
func (r *Result) walkFor(fe *ast.ForExpression, cur *Node, reg *synid.Registry, res Resolver) *Node {
	loop := r.Tree.newNode(LoopLabel, cur)
	if fe.Condition != nil {
		loop.Cond = fe.Condition
	}
	bodyEntry := loop
	if fe.ItemName != nil {
		bodyEntry = r.Tree.newNode(DeclPosition, loop)
		bodyEntry.VarRef = infercache.VarRefId{Kind: infercache.VarRefName, Name: fe.ItemName.Value}
	}
	bodyExit := r.walkBlock(fe.Body, bodyEntry, reg, res)
	// back-edge: the loop may run zero or more times, so the node after
	// the loop joins "never entered" (cur) with "ran at least once"
	// (bodyExit) the same way a branch join does.
	after := r.Tree.newNode(BranchLabel, cur, bodyExit)
	return after
}
