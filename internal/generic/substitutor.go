// Package generic implements the template substitutor, type
// instantiation and the structural pattern matcher (spec.md §4.2-§4.4),
// grounded on the teacher's Subst/Unify pair in the deleted HM
// typesystem but rebuilt for this spec's tagged-sum lattice and its
// named (TplId-keyed) templates rather than numbered unification
// variables.
package generic

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// SubstValue is the payload a TplId binds to (spec.md §4.2).
type SubstValue struct {
	Type      typesystem.Type   // set when this binds a single type
	MultiTypes []typesystem.Type // set when this binds a positional pack
	Params    []typesystem.Param // set when this binds a named parameter list
	MultiBase typesystem.Type   // set when this binds "zero or more of Base"
}

func SingleValue(t typesystem.Type) SubstValue        { return SubstValue{Type: t} }
func MultiValue(ts []typesystem.Type) SubstValue       { return SubstValue{MultiTypes: ts} }
func ParamsValue(ps []typesystem.Param) SubstValue     { return SubstValue{Params: ps} }
func MultiBaseValue(t typesystem.Type) SubstValue      { return SubstValue{MultiBase: t} }

// First returns the single type this value stands for when used in a
// non-variadic position (spec.md §4.3 TplRef lookup rule): Type itself,
// the first of MultiTypes/Params, or MultiBase. Returns (nil, false) if
// the value carries nothing.
func (v SubstValue) First() (typesystem.Type, bool) {
	if v.Type != nil {
		return v.Type, true
	}
	if len(v.MultiTypes) > 0 {
		return v.MultiTypes[0], true
	}
	if len(v.Params) > 0 {
		return v.Params[0].Type, true
	}
	if v.MultiBase != nil {
		return v.MultiBase, true
	}
	return nil, false
}

// Substitutor maps TplId to a SubstValue, plus a recursion guard of
// alias TypeDeclIds currently being expanded (spec.md §4.2).
type Substitutor struct {
	values    map[ids.TplId]SubstValue
	expanding map[ids.TypeDeclId]bool
}

// FromTypeArray builds a positional substitutor for a class's own
// template parameters (spec.md §4.2 "from_type_array").
func FromTypeArray(tplIds []ids.TplId, params []typesystem.Type) *Substitutor {
	s := &Substitutor{values: make(map[ids.TplId]SubstValue)}
	for i, id := range tplIds {
		if i < len(params) {
			s.values[id] = SingleValue(params[i])
		}
	}
	return s
}

// FromAlias builds a substitutor for expanding an alias declaration,
// carrying forward the caller's recursion-guard set plus declId itself
// (spec.md §4.2 "from_alias").
func FromAlias(tplIds []ids.TplId, params []typesystem.Type, declId ids.TypeDeclId, parentGuard *Substitutor) *Substitutor {
	s := FromTypeArray(tplIds, params)
	s.expanding = make(map[ids.TypeDeclId]bool)
	if parentGuard != nil {
		for k, v := range parentGuard.expanding {
			s.expanding[k] = v
		}
	}
	s.expanding[declId] = true
	return s
}

// CheckRecursion reports whether declId is already on the alias
// expansion stack (spec.md §4.2 "callers must short-circuit to Generic
// to prevent infinite alias expansion").
func (s *Substitutor) CheckRecursion(declId ids.TypeDeclId) bool {
	if s == nil || s.expanding == nil {
		return false
	}
	return s.expanding[declId]
}

func (s *Substitutor) Lookup(id ids.TplId) (SubstValue, bool) {
	if s == nil {
		return SubstValue{}, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Bind is used by the pattern matcher (unify.go) to fill in a value
// discovered by structural descent.
func (s *Substitutor) Bind(id ids.TplId, v SubstValue) {
	if s.values == nil {
		s.values = make(map[ids.TplId]SubstValue)
	}
	s.values[id] = v
}

// Empty returns a fresh substitutor with no bindings, used as the
// target of unify(template, concrete).
func Empty() *Substitutor { return &Substitutor{values: make(map[ids.TplId]SubstValue)} }
