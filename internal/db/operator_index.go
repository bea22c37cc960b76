package db

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// OperatorName is a meta-method name (spec.md §3.2 OperatorIndex).
type OperatorName string

const (
	OpAdd   OperatorName = "Add"
	OpSub   OperatorName = "Sub"
	OpMul   OperatorName = "Mul"
	OpDiv   OperatorName = "Div"
	OpMod   OperatorName = "Mod"
	OpPow   OperatorName = "Pow"
	OpIDiv  OperatorName = "IDiv"
	OpUnm   OperatorName = "Unm"
	OpBNot  OperatorName = "BNot"
	OpBAnd  OperatorName = "BAnd"
	OpBOr   OperatorName = "BOr"
	OpBXor  OperatorName = "BXor"
	OpShl   OperatorName = "Shl"
	OpShr   OperatorName = "Shr"
	OpConcat OperatorName = "Concat"
	OpLen   OperatorName = "Len"
	OpEq    OperatorName = "Eq"
	OpLt    OperatorName = "Lt"
	OpLe    OperatorName = "Le"
	OpCall  OperatorName = "Call"
	OpIndex OperatorName = "Index"
	OpNewIndex OperatorName = "NewIndex"
)

// OperatorOwner is either a nominal type decl or an anonymous table
// literal (by range), mirroring MemberOwner but restricted to the two
// shapes an operator can be attached to.
type OperatorOwner struct {
	TypeDecl ids.TypeDeclId // empty if this is a TableConst owner
	File     ids.FileId
	Range    ids.TextRange
	IsTable  bool
}

func TypeOperatorOwner(id ids.TypeDeclId) OperatorOwner { return OperatorOwner{TypeDecl: id} }

func TableOperatorOwner(file ids.FileId, r ids.TextRange) OperatorOwner {
	return OperatorOwner{File: file, Range: r, IsTable: true}
}

type OperatorIndex struct {
	entries map[OperatorOwner]map[OperatorName]typesystem.FunctionType
}

func NewOperatorIndex() *OperatorIndex {
	return &OperatorIndex{entries: make(map[OperatorOwner]map[OperatorName]typesystem.FunctionType)}
}

func (o *OperatorIndex) Add(owner OperatorOwner, name OperatorName, fn typesystem.FunctionType) {
	m, ok := o.entries[owner]
	if !ok {
		m = make(map[OperatorName]typesystem.FunctionType)
		o.entries[owner] = m
	}
	m[name] = fn
}

func (o *OperatorIndex) Lookup(owner OperatorOwner, name OperatorName) (typesystem.FunctionType, bool) {
	m, ok := o.entries[owner]
	if !ok {
		return typesystem.FunctionType{}, false
	}
	fn, ok := m[name]
	return fn, ok
}

func (o *OperatorIndex) RemoveFile(file ids.FileId) {
	for owner := range o.entries {
		if owner.IsTable && owner.File == file {
			delete(o.entries, owner)
		}
	}
}
