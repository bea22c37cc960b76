package db

import "github.com/funvibe/funxy/internal/ids"

// Index is the full db: the aggregate of every sub-index, owning all of
// a workspace snapshot's interned identities (spec.md §3.2-§3.3). It is
// the only long-lived mutable resource in the analyzer (spec.md §5
// "Shared-resource policy"): mutated exclusively during indexing,
// read under shared access during inference.
type Index struct {
	DeclTrees  map[ids.FileId]*DeclTree
	References *ReferenceIndex
	Members    *MemberIndex
	Signatures *SignatureIndex
	Operators  *OperatorIndex
	Types      *TypeIndex
	Modules    *ModuleIndex
	Globals    *GlobalIndex
	Properties *PropertyIndex
	Unresolved *UnresolvedQueue
}

func New() *Index {
	return &Index{
		DeclTrees:  make(map[ids.FileId]*DeclTree),
		References: NewReferenceIndex(),
		Members:    NewMemberIndex(),
		Signatures: NewSignatureIndex(),
		Operators:  NewOperatorIndex(),
		Types:      NewTypeIndex(),
		Modules:    NewModuleIndex(),
		Globals:    NewGlobalIndex(),
		Properties: NewPropertyIndex(),
		Unresolved: NewUnresolvedQueue(),
	}
}

// RemoveFile evicts every entry in every sub-index that originated in
// file (spec.md §3.3 "on file removal, entries matching the file id are
// evicted; if a decl/member/signature has no remaining sites, it is
// deleted").
func (idx *Index) RemoveFile(file ids.FileId) {
	delete(idx.DeclTrees, file)
	idx.References.RemoveFile(file)
	idx.Members.RemoveFile(file)
	idx.Signatures.RemoveFile(file)
	idx.Operators.RemoveFile(file)
	idx.Types.RemoveFile(file)
	idx.Modules.RemoveFile(file)
	idx.Globals.RemoveFile(file)
	idx.Properties.RemoveFile(file)
}
