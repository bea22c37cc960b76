// Package infercache is the per-file memoization layer for expression
// and flow-narrowing results (spec.md §4.1), grounded on the teacher's
// own moduleCache-style "cache result by key, detect re-entrancy"
// pattern (pkg/cli/entry.go's moduleCache) generalized to the three key
// shapes spec.md calls for and given an explicit InProgress sentinel for
// cycle detection, which the teacher's cache never needed.
package infercache

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// ExprKey identifies a single expression's inferred type.
type ExprKey struct{ SynId int64 }

// CallKey identifies a resolved overload for a specific call site: the
// call's syntax id, its argument count, and the callee's type (rendered
// to a string since Type isn't map-key-safe in general — composite
// variants hold slices/maps).
type CallKey struct {
	SynId     int64
	ArgsCount int
	CalleeStr string
}

// FlowKey identifies a narrowed type at a specific program point.
type FlowKey struct {
	VarRef VarRefId
	FlowId int64
}

// VarRefIdKind discriminates VarRefId (spec.md §4.7).
type VarRefIdKind uint8

const (
	VarRefDecl VarRefIdKind = iota
	VarRefName
	VarRefSyntax
)

// VarRefId identifies the variable a flow narrowing result is about.
type VarRefId struct {
	Kind   VarRefIdKind
	Decl   ids.DeclId
	Name   string
	SynId  int64
}

// state discriminates an entry's slot: absent, in-progress, or cached.
type state uint8

const (
	stateNone state = iota
	stateInProgress
	stateCached
)

type entry struct {
	state state
	value typesystem.Type
	fn    typesystem.FunctionType
}

// Cache is a per-file store for the three key shapes spec.md §4.1
// defines. It is never shared across requests and never evicted mid-
// request (spec.md §5 "not shared across requests").
type Cache struct {
	exprs  map[ExprKey]*entry
	calls  map[CallKey]*entry
	flows  map[FlowKey]*entry
}

func New() *Cache {
	return &Cache{
		exprs: make(map[ExprKey]*entry),
		calls: make(map[CallKey]*entry),
		flows: make(map[FlowKey]*entry),
	}
}

// GetResult is the tri-state result of a cache lookup.
type GetResult uint8

const (
	Miss GetResult = iota
	Found
	InProgress
)

// ReadyExpr marks synId as "in progress", returning Found/InProgress
// for a caller that must detect re-entrancy before proceeding (spec.md
// §4.1 "ready(key) marks in progress").
func (c *Cache) ReadyExpr(k ExprKey) (typesystem.Type, GetResult) {
	e, ok := c.exprs[k]
	if !ok {
		c.exprs[k] = &entry{state: stateInProgress}
		return nil, Miss
	}
	switch e.state {
	case stateInProgress:
		return nil, InProgress
	case stateCached:
		return e.value, Found
	default:
		e.state = stateInProgress
		return nil, Miss
	}
}

func (c *Cache) PutExpr(k ExprKey, t typesystem.Type) {
	c.exprs[k] = &entry{state: stateCached, value: t}
}

func (c *Cache) RemoveExpr(k ExprKey) { delete(c.exprs, k) }

func (c *Cache) GetCall(k CallKey) (typesystem.FunctionType, bool) {
	e, ok := c.calls[k]
	if !ok || e.state != stateCached {
		return typesystem.FunctionType{}, false
	}
	return e.fn, true
}

func (c *Cache) PutCall(k CallKey, fn typesystem.FunctionType) {
	c.calls[k] = &entry{state: stateCached, fn: fn}
}

// ReadyFlow mirrors ReadyExpr for (var_ref_id, flow_node_id) keys
// (spec.md §4.7 "cancellation: the cache's entry holds an InProgress
// sentinel while recurring").
func (c *Cache) ReadyFlow(k FlowKey) (typesystem.Type, GetResult) {
	e, ok := c.flows[k]
	if !ok {
		c.flows[k] = &entry{state: stateInProgress}
		return nil, Miss
	}
	switch e.state {
	case stateInProgress:
		return nil, InProgress
	case stateCached:
		return e.value, Found
	default:
		e.state = stateInProgress
		return nil, Miss
	}
}

func (c *Cache) PutFlow(k FlowKey, t typesystem.Type) {
	c.flows[k] = &entry{state: stateCached, value: t}
}

func (c *Cache) RemoveFlow(k FlowKey) { delete(c.flows, k) }
