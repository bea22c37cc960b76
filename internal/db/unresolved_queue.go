package db

import "github.com/funvibe/funxy/internal/ids"

// UnresolvedKind discriminates an UnresolvedQueue entry.
type UnresolvedKind uint8

const (
	UnresolvedDecl UnresolvedKind = iota
	UnresolvedMember
	UnresolvedSignature
	UnresolvedExpr
)

// UnresolvedEntry is one pending fixed-point item: a decl, member,
// signature return, or expression whose type could not be determined on
// the pass that discovered it (spec.md §4.5 failure modes feed this
// queue; §5 "drained to a fixed point").
type UnresolvedEntry struct {
	Kind      UnresolvedKind
	Decl      ids.DeclId
	Member    ids.MemberId
	Signature ids.SignatureId
	ExprId    int64
	Note      string
}

// UnresolvedQueue is a small fixed-point worklist. It is not itself
// part of the CORE's specified components (decl/doc analysis drive it,
// and those are out of scope per spec.md §1), but the CORE's cache
// (internal/infercache) and inference engine are what the loop calls on
// each pass, so the queue lives alongside the rest of the db so callers
// have one place to push entries discovered mid-inference.
type UnresolvedQueue struct {
	entries []UnresolvedEntry
}

func NewUnresolvedQueue() *UnresolvedQueue { return &UnresolvedQueue{} }

func (q *UnresolvedQueue) Push(e UnresolvedEntry) { q.entries = append(q.entries, e) }

func (q *UnresolvedQueue) Len() int { return len(q.entries) }

// Drain repeatedly calls resolve on every pending entry, removing those
// it resolves (returns true), until a full pass makes no progress.
func (q *UnresolvedQueue) Drain(resolve func(UnresolvedEntry) bool) {
	for {
		progressed := false
		remaining := q.entries[:0]
		for _, e := range q.entries {
			if resolve(e) {
				progressed = true
				continue
			}
			remaining = append(remaining, e)
		}
		q.entries = remaining
		if !progressed || len(q.entries) == 0 {
			return
		}
	}
}
