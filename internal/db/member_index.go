package db

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// MemberOwnerKind discriminates MemberOwner (spec.md §3.2).
type MemberOwnerKind uint8

const (
	OwnerNone MemberOwnerKind = iota
	OwnerType
	OwnerElement
)

// MemberOwner identifies what a Member is attached to: a nominal type
// decl, a table-literal element (by source range), or nothing (an
// orphaned member produced before its owner resolved).
type MemberOwner struct {
	Kind     MemberOwnerKind
	TypeDecl ids.TypeDeclId
	File     ids.FileId
	Range    ids.TextRange
}

func TypeOwner(id ids.TypeDeclId) MemberOwner { return MemberOwner{Kind: OwnerType, TypeDecl: id} }

func ElementOwner(file ids.FileId, r ids.TextRange) MemberOwner {
	return MemberOwner{Kind: OwnerElement, File: file, Range: r}
}

func (o MemberOwner) key() interface{} {
	switch o.Kind {
	case OwnerType:
		return o.TypeDecl
	case OwnerElement:
		return [2]interface{}{o.File, o.Range}
	default:
		return nil
	}
}

// Member is one field/method write site (spec.md §3.2 MemberIndex).
type Member struct {
	Id      ids.MemberId
	File    ids.FileId
	Owner   MemberOwner
	Key     typesystem.MemberKey
	Range   ids.TextRange
	Feature string // e.g. "method", "field", ""
	Type    typesystem.Type
}

// MemberIndex stores members keyed by owner, preserving insertion order
// for stable listing (spec.md §4.9 "Member ordering for listing").
type MemberIndex struct {
	byOwner map[interface{}][]*Member
	byId    map[ids.MemberId]*Member
}

func NewMemberIndex() *MemberIndex {
	return &MemberIndex{byOwner: make(map[interface{}][]*Member), byId: make(map[ids.MemberId]*Member)}
}

func (m *MemberIndex) Add(mem *Member) {
	m.byOwner[mem.Owner.key()] = append(m.byOwner[mem.Owner.key()], mem)
	m.byId[mem.Id] = mem
}

// MembersOf returns every member registered under owner, in insertion
// order.
func (m *MemberIndex) MembersOf(owner MemberOwner) []*Member {
	return m.byOwner[owner.key()]
}

// Get looks up a member by its stable id (spec.md §4.10 go-to-definition,
// which resolves to a SemanticDeclId carrying a bare MemberId and needs
// the member's Range back to build a location).
func (m *MemberIndex) Get(id ids.MemberId) (*Member, bool) {
	mem, ok := m.byId[id]
	return mem, ok
}

func (m *MemberIndex) ByKey(owner MemberOwner, key typesystem.MemberKey) (*Member, bool) {
	for _, mem := range m.byOwner[owner.key()] {
		if memberKeyEqual(mem.Key, key) {
			return mem, true
		}
	}
	return nil, false
}

func memberKeyEqual(a, b typesystem.MemberKey) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case typesystem.KeyName:
		return a.Name == b.Name
	case typesystem.KeyInteger:
		return a.Int == b.Int
	case typesystem.KeyExprType:
		return typesystem.Equal(a.ExprType, b.ExprType)
	default:
		return true
	}
}

func (m *MemberIndex) RemoveFile(file ids.FileId) {
	for owner, mems := range m.byOwner {
		kept := mems[:0]
		for _, mem := range mems {
			if mem.File == file {
				delete(m.byId, mem.Id)
				continue
			}
			kept = append(kept, mem)
		}
		if len(kept) == 0 {
			delete(m.byOwner, owner)
		} else {
			m.byOwner[owner] = kept
		}
	}
}
