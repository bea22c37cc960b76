package db

import "github.com/funvibe/funxy/internal/ids"

// SemanticDeclKind discriminates SemanticDeclId (spec.md §4.10).
type SemanticDeclKind uint8

const (
	SemDecl SemanticDeclKind = iota
	SemMember
	SemSignature
	SemTypeDecl
)

// SemanticDeclId identifies whatever a hover/go-to-definition request
// resolved to.
type SemanticDeclId struct {
	Kind      SemanticDeclKind
	Decl      ids.DeclId
	Member    ids.MemberId
	Signature ids.SignatureId
	TypeDecl  ids.TypeDeclId
}

// PropertyInfo is the doc-tag metadata attached to a semantic decl
// (spec.md §3.2 PropertyIndex).
type PropertyInfo struct {
	Description string
	Visibility  string // "public" | "private" | "protected" | "package"
	Deprecated  bool
	DeprecatedReason string
	See         []string
	NoDiscard   bool
	Tags        map[string]string
}

type PropertyIndex struct {
	byDecl map[SemanticDeclId]*PropertyInfo
}

func NewPropertyIndex() *PropertyIndex {
	return &PropertyIndex{byDecl: make(map[SemanticDeclId]*PropertyInfo)}
}

func (p *PropertyIndex) Set(id SemanticDeclId, info *PropertyInfo) { p.byDecl[id] = info }

func (p *PropertyIndex) Get(id SemanticDeclId) (*PropertyInfo, bool) {
	info, ok := p.byDecl[id]
	return info, ok
}

func (p *PropertyIndex) RemoveFile(file ids.FileId) {
	for id := range p.byDecl {
		var f ids.FileId
		switch id.Kind {
		case SemDecl:
			f = id.Decl.File
		case SemMember:
			f = id.Member.File
		case SemSignature:
			f = id.Signature.File
		default:
			continue
		}
		if f == file {
			delete(p.byDecl, id)
		}
	}
}
