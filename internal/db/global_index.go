package db

import "github.com/funvibe/funxy/internal/ids"

// GlobalIndex maps a free (undeclared-locally) name to its canonical
// declaration (spec.md §3.2). Last writer wins, matching the dynamic
// language's single global namespace.
type GlobalIndex struct {
	byName map[string]ids.DeclId
}

func NewGlobalIndex() *GlobalIndex { return &GlobalIndex{byName: make(map[string]ids.DeclId)} }

func (g *GlobalIndex) Add(name string, decl ids.DeclId) { g.byName[name] = decl }

func (g *GlobalIndex) Lookup(name string) (ids.DeclId, bool) {
	d, ok := g.byName[name]
	return d, ok
}

// Names returns every registered global name (used by Global-type member
// enumeration, spec.md §4.9).
func (g *GlobalIndex) Names() []string {
	out := make([]string, 0, len(g.byName))
	for n := range g.byName {
		out = append(out, n)
	}
	return out
}

func (g *GlobalIndex) RemoveFile(file ids.FileId) {
	for name, d := range g.byName {
		if d.File == file {
			delete(g.byName, name)
		}
	}
}
