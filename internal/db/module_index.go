package db

import (
	"strings"

	"github.com/funvibe/funxy/internal/ids"
)

// ReplaceRule is one entry of workspace.moduleMap (spec.md §6): a
// require-path prefix to rewrite before pattern extraction is tried.
type ReplaceRule struct {
	Pattern string
	Replace string
}

// ModuleIndex resolves a `require`-style module path to the FileId that
// declares it, trying each extract pattern in turn (spec.md §3.2
// "trie of module paths -> file-id, with extract patterns ... and a
// replace list"). Grounded on the teacher's module-loader extension
// detection (internal/modules/loader.go detectPackageExtension): here
// reduced to pure path bookkeeping, since the CORE never reads files
// itself (spec.md §1 "file I/O and VFS" is an external collaborator).
type ModuleIndex struct {
	byPath   map[string]ids.FileId
	Patterns []string // e.g. "?.lua", "?/init.lua"
	Replaces []ReplaceRule
}

func NewModuleIndex() *ModuleIndex {
	return &ModuleIndex{
		byPath:   make(map[string]ids.FileId),
		Patterns: []string{"?.lua", "?/init.lua"},
	}
}

// Register binds a canonical module path to the file that defines it.
func (m *ModuleIndex) Register(path string, file ids.FileId) {
	m.byPath[path] = file
}

// Resolve applies the replace rules, then each extract pattern in order,
// returning the first registered match.
func (m *ModuleIndex) Resolve(requirePath string) (ids.FileId, bool) {
	candidates := []string{requirePath}
	for _, rr := range m.Replaces {
		if strings.HasPrefix(requirePath, rr.Pattern) {
			candidates = append(candidates, rr.Replace+strings.TrimPrefix(requirePath, rr.Pattern))
		}
	}
	for _, cand := range candidates {
		if f, ok := m.byPath[cand]; ok {
			return f, true
		}
		for _, pat := range m.Patterns {
			expanded := strings.Replace(pat, "?", cand, 1)
			if f, ok := m.byPath[expanded]; ok {
				return f, true
			}
		}
	}
	return 0, false
}

func (m *ModuleIndex) RemoveFile(file ids.FileId) {
	for path, f := range m.byPath {
		if f == file {
			delete(m.byPath, path)
		}
	}
}
