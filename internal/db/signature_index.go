package db

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// ParamInfo is a doc-attached description of a parameter.
type ParamInfo struct {
	Name string
	Doc  string
}

// ReturnInfo is a doc-attached description of one return value.
type ReturnInfo struct {
	Doc string
}

// ResolveState tracks how a signature's return type was determined
// (spec.md §3.2 SignatureIndex.resolve_return).
type ResolveState uint8

const (
	Unresolved ResolveState = iota
	InferResolved
	DocResolved
)

// GenericParamDecl is a `---@generic` entry on a signature.
type GenericParamDecl struct {
	Name       string
	Constraint typesystem.Type // nil if unconstrained
}

// Signature is the declared shape of a source-level function (spec.md
// §3.2). Overloads, when present, are tried most-recently-declared-first
// (spec.md §4.6); Overloads[last] is the primary/base signature.
type Signature struct {
	Id              ids.SignatureId
	IsAsync         bool
	IsColonDefine   bool
	Params          []string
	ParamDocs       map[int]ParamInfo
	ReturnDocs      []ReturnInfo
	Overloads       []typesystem.FunctionType
	GenericParams   []GenericParamDecl
	ResolveReturn   ResolveState
	ReturnType      typesystem.Type // filled once ResolveReturn != Unresolved
}

type SignatureIndex struct {
	bySig map[ids.SignatureId]*Signature
}

func NewSignatureIndex() *SignatureIndex {
	return &SignatureIndex{bySig: make(map[ids.SignatureId]*Signature)}
}

func (s *SignatureIndex) Add(sig *Signature) { s.bySig[sig.Id] = sig }

func (s *SignatureIndex) Get(id ids.SignatureId) (*Signature, bool) {
	sig, ok := s.bySig[id]
	return sig, ok
}

func (s *SignatureIndex) SetReturnType(id ids.SignatureId, t typesystem.Type, state ResolveState) {
	if sig, ok := s.bySig[id]; ok {
		sig.ReturnType = t
		sig.ResolveReturn = state
	}
}

// Base returns the primary (non-overload) function type: the last
// declared shape, since later @overload decls supersede earlier ones as
// the canonical signature while remaining tryable in resolution order.
func (s *Signature) Base() typesystem.FunctionType {
	if len(s.Overloads) == 0 {
		return typesystem.FunctionType{Return: s.ReturnType}
	}
	return s.Overloads[len(s.Overloads)-1]
}

func (s *SignatureIndex) RemoveFile(file ids.FileId) {
	for id := range s.bySig {
		if id.File == file {
			delete(s.bySig, id)
		}
	}
}
