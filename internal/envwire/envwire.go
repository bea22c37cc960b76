// Package envwire builds the shared generic.Env/compat.Env/members.Env
// triple a live db.Index needs, wiring each package's decoupled callback
// fields back to the index (spec.md §4.3/§4.8/§4.9). internal/checks and
// internal/semantic's own tests build these by hand against a
// hand-constructed db.Index; a real caller (cmd/lsp, pkg/diagcli)
// analyzing actual source needs the wired version, which is what this
// package provides.
package envwire

import (
	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Set is the (generic, compat, members) environment triple every
// Model in a workspace shares, since all three read the same db.Index
// snapshot (spec.md §5 "Shared-resource policy").
type Set struct {
	Generic *generic.Env
	Compat  *compat.Env
	Members *members.Env
}

// Build wires Set's three environments against index. strict carries the
// config.Strict flags (spec.md §6): classInheritance gates the
// permissive super/sub-type Open Question decision recorded in
// DESIGN.md, docIntegerConstMatchInt gates whether DocIntConst matches
// Integer. A zero Strict value reproduces the analyzer's defaults.
func Build(index *db.Index, strict config.Strict) *Set {
	s := &Set{}

	s.Generic = &generic.Env{
		AliasOrigin: func(id ids.TypeDeclId) (typesystem.Type, []ids.TplId, bool) {
			return aliasOrigin(index, id)
		},
		CheckCompatible: func(source, compact_ typesystem.Type) bool {
			return compat.Check(source, compact_, s.Compat).Kind == compat.Ok
		},
		SignatureShape: func(id ids.SignatureId) (typesystem.FunctionType, []typesystem.FunctionType, bool) {
			sig, ok := index.Signatures.Get(id)
			if !ok {
				return typesystem.FunctionType{}, nil, false
			}
			return sig.Base(), sig.Overloads, true
		},
	}

	s.Compat = &compat.Env{
		AliasOrigin: func(id ids.TypeDeclId) (typesystem.Type, []ids.TplId, bool) {
			return aliasOrigin(index, id)
		},
		IsEnum: func(id ids.TypeDeclId) (typesystem.Type, []compat.EnumMember, bool, bool) {
			members, ok := index.Types.IsEnum(id)
			if !ok {
				return nil, nil, false, false
			}
			out := make([]compat.EnumMember, len(members))
			for i, m := range members {
				out[i] = compat.EnumMember{Name: m.Name, Value: m.Value}
			}
			return typesystem.String, out, false, true
		},
		IsClass: func(id ids.TypeDeclId) bool {
			return index.Types.Kinds[id] == db.TypeKindClass
		},
		ClassFields: func(id ids.TypeDeclId) map[typesystem.MemberKey]typesystem.Type {
			return classFields(index, id)
		},
		Supers: func(id ids.TypeDeclId) []typesystem.Type {
			return index.Types.AllSupersTransitive(id)
		},
		TableConstKeys: func(t typesystem.TableConst) map[typesystem.MemberKey]typesystem.Type {
			mems := index.Members.MembersOf(db.ElementOwner(t.Range.File, t.Range.Range))
			if len(mems) == 0 {
				return nil
			}
			out := make(map[typesystem.MemberKey]typesystem.Type, len(mems))
			for _, m := range mems {
				out[m.Key] = m.Type
			}
			return out
		},
		StrictDocIntMatchInt:   strict.DocIntMatchInt(),
		StrictClassInheritance: strict.ClassInheritanceEnabled(),
		GenericEnv:             s.Generic,
	}

	s.Members = &members.Env{
		Members: index.Members,
		Types:   index.Types,
		Globals: index.Globals,
		IsAlias: func(id ids.TypeDeclId) (typesystem.Type, []ids.TplId, bool) {
			return aliasOrigin(index, id)
		},
		GenericParamIds: func(id ids.TypeDeclId) []ids.TplId {
			decls := index.Types.GenericParams[id]
			out := make([]ids.TplId, len(decls))
			for i, d := range decls {
				out[i] = ids.TplId{Owner: id, Name: d.Name}
			}
			return out
		},
		GenericEnv: s.Generic,
	}

	return s
}

func aliasOrigin(index *db.Index, id ids.TypeDeclId) (typesystem.Type, []ids.TplId, bool) {
	origin, ok := index.Types.IsAlias(id)
	if !ok {
		return nil, nil, false
	}
	decls := index.Types.GenericParams[id]
	tplIds := make([]ids.TplId, len(decls))
	for i, d := range decls {
		tplIds[i] = ids.TplId{Owner: id, Name: d.Name}
	}
	return origin, tplIds, true
}

func classFields(index *db.Index, id ids.TypeDeclId) map[typesystem.MemberKey]typesystem.Type {
	mems := index.Members.MembersOf(db.TypeOwner(id))
	if len(mems) == 0 {
		return nil
	}
	out := make(map[typesystem.MemberKey]typesystem.Type, len(mems))
	for _, m := range mems {
		out[m.Key] = m.Type
	}
	return out
}
