package db

import "github.com/funvibe/funxy/internal/ids"

// Use is one occurrence of a declaration: a read or an assignment.
type Use struct {
	Range        ids.TextRange
	IsAssignment bool
}

// ReferenceIndex maps a (file, text_range) occurrence to the DeclId it
// resolves to, plus the reverse per-decl use-site list (spec.md §3.2).
type ReferenceIndex struct {
	byOccurrence map[ids.FileId]map[ids.TextRange]ids.DeclId
	usesOf       map[ids.DeclId][]Use
}

func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{
		byOccurrence: make(map[ids.FileId]map[ids.TextRange]ids.DeclId),
		usesOf:       make(map[ids.DeclId][]Use),
	}
}

func (r *ReferenceIndex) Record(file ids.FileId, rng ids.TextRange, decl ids.DeclId, isAssignment bool) {
	m, ok := r.byOccurrence[file]
	if !ok {
		m = make(map[ids.TextRange]ids.DeclId)
		r.byOccurrence[file] = m
	}
	m[rng] = decl
	r.usesOf[decl] = append(r.usesOf[decl], Use{Range: rng, IsAssignment: isAssignment})
}

func (r *ReferenceIndex) Lookup(file ids.FileId, rng ids.TextRange) (ids.DeclId, bool) {
	m, ok := r.byOccurrence[file]
	if !ok {
		return ids.DeclId{}, false
	}
	d, ok := m[rng]
	return d, ok
}

func (r *ReferenceIndex) UsesOf(decl ids.DeclId) []Use {
	return r.usesOf[decl]
}

// Assignments returns only the assignment uses of decl, in occurrence
// order; used by the flow analyzer to compute Assignment flow nodes.
func (r *ReferenceIndex) Assignments(decl ids.DeclId) []Use {
	var out []Use
	for _, u := range r.usesOf[decl] {
		if u.IsAssignment {
			out = append(out, u)
		}
	}
	return out
}

// RemoveFile evicts every occurrence and use-site originating in file
// (spec.md §3.3 "on file removal, entries matching the file id are
// evicted").
func (r *ReferenceIndex) RemoveFile(file ids.FileId) {
	delete(r.byOccurrence, file)
	for decl := range r.usesOf {
		if decl.File == file {
			delete(r.usesOf, decl)
		}
	}
}
