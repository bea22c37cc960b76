package db

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// LuaTypeOwnerKind discriminates LuaTypeOwner (spec.md §3.2 TypeIndex).
type LuaTypeOwnerKind uint8

const (
	OwnerKindDecl LuaTypeOwnerKind = iota
	OwnerKindMember
)

// LuaTypeOwner identifies the decl or member a cached doc/infer type is
// attached to.
type LuaTypeOwner struct {
	Kind   LuaTypeOwnerKind
	Decl   ids.DeclId
	Member ids.MemberId
}

func DeclOwner(d ids.DeclId) LuaTypeOwner     { return LuaTypeOwner{Kind: OwnerKindDecl, Decl: d} }
func MemberOwnerKey(m ids.MemberId) LuaTypeOwner { return LuaTypeOwner{Kind: OwnerKindMember, Member: m} }

// LuaTypeCache holds the two possible sources of a decl/member's type:
// a doc-declared type and/or an engine-inferred one. DocType wins when
// both are present (spec.md §4.5 "declared-or-inferred type").
type LuaTypeCache struct {
	DocType   typesystem.Type
	InferType typesystem.Type
}

// Resolved returns DocType if present, else InferType.
func (c LuaTypeCache) Resolved() typesystem.Type {
	if c.DocType != nil {
		return c.DocType
	}
	return c.InferType
}

// TypeDeclKind discriminates what a TypeDeclId actually names: a
// class/record-like nominal type, a type alias, or an enum (spec.md
// §4.8's alias-unwrap and enum-member dispatch need this to tell the
// three apart; the doc-tag parser that would normally stamp this is out
// of scope per spec.md §1, so declanalysis fills it in from whatever the
// source syntax already tells it).
type TypeDeclKind uint8

const (
	TypeKindClass TypeDeclKind = iota
	TypeKindAlias
	TypeKindEnum
)

// EnumMember is one named (and optionally literal-valued) case of an
// enum-kind TypeDeclId.
type EnumMember struct {
	Name  string
	Value typesystem.Type // nil if the enum case carries no explicit value
}

// TypeIndex holds namespaces, file-level usings, per-decl generic
// parameters, super-type edges, nominal-kind/alias/enum metadata and the
// doc/infer type cache (spec.md §3.2).
type TypeIndex struct {
	Namespaces     map[string]bool
	FileUsings     map[ids.FileId][]string
	GenericParams  map[ids.TypeDeclId][]GenericParamDecl
	Supers         map[ids.TypeDeclId][]typesystem.Type
	Names          map[ids.TypeDeclId]string
	Kinds          map[ids.TypeDeclId]TypeDeclKind
	AliasOrigins   map[ids.TypeDeclId]typesystem.Type
	EnumMembers    map[ids.TypeDeclId][]EnumMember
	cache          map[LuaTypeOwner]*LuaTypeCache
	declFile       map[ids.TypeDeclId]ids.FileId
}

func NewTypeIndex() *TypeIndex {
	return &TypeIndex{
		Namespaces:    make(map[string]bool),
		FileUsings:    make(map[ids.FileId][]string),
		GenericParams: make(map[ids.TypeDeclId][]GenericParamDecl),
		Supers:        make(map[ids.TypeDeclId][]typesystem.Type),
		Names:         make(map[ids.TypeDeclId]string),
		Kinds:         make(map[ids.TypeDeclId]TypeDeclKind),
		AliasOrigins:  make(map[ids.TypeDeclId]typesystem.Type),
		EnumMembers:   make(map[ids.TypeDeclId][]EnumMember),
		cache:         make(map[LuaTypeOwner]*LuaTypeCache),
		declFile:      make(map[ids.TypeDeclId]ids.FileId),
	}
}

// IsAlias reports whether id names a type alias, and if so its origin
// type (spec.md §4.8's alias-unwrap branch).
func (t *TypeIndex) IsAlias(id ids.TypeDeclId) (typesystem.Type, bool) {
	if t.Kinds[id] != TypeKindAlias {
		return nil, false
	}
	origin, ok := t.AliasOrigins[id]
	return origin, ok
}

// IsEnum reports whether id names an enum, and if so its member list.
func (t *TypeIndex) IsEnum(id ids.TypeDeclId) ([]EnumMember, bool) {
	if t.Kinds[id] != TypeKindEnum {
		return nil, false
	}
	members, ok := t.EnumMembers[id]
	return members, ok
}

func (t *TypeIndex) RegisterDecl(id ids.TypeDeclId, file ids.FileId) { t.declFile[id] = file }

// DeclFile reports which file declared id, for go-to-definition on a
// nominal type reference (cmd/lsp's handleDefinition). TypeIndex does
// not track a declaration's exact position, only its file.
func (t *TypeIndex) DeclFile(id ids.TypeDeclId) (ids.FileId, bool) {
	f, ok := t.declFile[id]
	return f, ok
}

func (t *TypeIndex) AddSuper(id ids.TypeDeclId, super typesystem.Type) {
	t.Supers[id] = append(t.Supers[id], super)
}

// AllSupersTransitive walks the super-type edges of id breadth-first
// with a visited-id cycle guard (spec.md §4.8 "cycles guarded").
func (t *TypeIndex) AllSupersTransitive(id ids.TypeDeclId) []typesystem.Type {
	visited := map[ids.TypeDeclId]bool{id: true}
	var out []typesystem.Type
	queue := []ids.TypeDeclId{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range t.Supers[cur] {
			out = append(out, s)
			var nextId ids.TypeDeclId
			switch sv := s.(type) {
			case typesystem.Ref:
				nextId = sv.Id
			case typesystem.Def:
				nextId = sv.Id
			case typesystem.Generic:
				nextId = sv.Base
			default:
				continue
			}
			if !visited[nextId] {
				visited[nextId] = true
				queue = append(queue, nextId)
			}
		}
	}
	return out
}

func (t *TypeIndex) cacheFor(owner LuaTypeOwner) *LuaTypeCache {
	c, ok := t.cache[owner]
	if !ok {
		c = &LuaTypeCache{}
		t.cache[owner] = c
	}
	return c
}

func (t *TypeIndex) SetDocType(owner LuaTypeOwner, ty typesystem.Type) {
	t.cacheFor(owner).DocType = ty
}

func (t *TypeIndex) SetInferType(owner LuaTypeOwner, ty typesystem.Type) {
	t.cacheFor(owner).InferType = ty
}

func (t *TypeIndex) Get(owner LuaTypeOwner) (*LuaTypeCache, bool) {
	c, ok := t.cache[owner]
	return c, ok
}

func (t *TypeIndex) RemoveFile(file ids.FileId) {
	delete(t.FileUsings, file)
	for id, f := range t.declFile {
		if f != file {
			continue
		}
		delete(t.declFile, id)
		delete(t.Supers, id)
		delete(t.GenericParams, id)
		delete(t.Names, id)
		delete(t.Kinds, id)
		delete(t.AliasOrigins, id)
		delete(t.EnumMembers, id)
	}
	for owner := range t.cache {
		if owner.Kind == OwnerKindDecl && owner.Decl.File == file {
			delete(t.cache, owner)
		}
		if owner.Kind == OwnerKindMember && owner.Member.File == file {
			delete(t.cache, owner)
		}
	}
}
