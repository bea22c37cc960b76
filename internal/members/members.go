// Package members implements the member-resolution algorithm (spec.md
// §4.9): finding fields and methods on any Type through the composite
// lattice, with a cycle guard for recursive class hierarchies.
package members

import (
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Info is one resolved member (spec.md §4.9 MemberInfo).
type Info struct {
	Key             typesystem.MemberKey
	Type            typesystem.Type
	PropertyOwnerId *db.SemanticDeclId
	Feature         string
}

// Env bundles the db access and generic substitution the resolver needs.
type Env struct {
	Members         *db.MemberIndex
	Types           *db.TypeIndex
	Globals         *db.GlobalIndex
	IsAlias         func(id ids.TypeDeclId) (origin typesystem.Type, tplIds []ids.TplId, ok bool)
	GenericParamIds func(id ids.TypeDeclId) []ids.TplId
	GenericEnv      *generic.Env
}

// FindMembers dispatches over the composite lattice (spec.md §4.9).
func FindMembers(t typesystem.Type, env *Env) []Info {
	return findMembers(t, env, make(map[ids.TypeDeclId]bool))
}

func findMembers(t typesystem.Type, env *Env, visiting map[ids.TypeDeclId]bool) []Info {
	if t == nil || env == nil {
		return nil
	}
	switch v := t.(type) {
	case typesystem.TableConst:
		return membersFromIndex(env, db.ElementOwner(v.Range.File, v.Range.Range))

	case typesystem.TableGeneric:
		if len(v.Entries) < 2 {
			return nil
		}
		return []Info{{Key: typesystem.NameKey("index"), Type: v.Entries[1]}}

	case typesystem.Ref:
		return findNominalMembers(v.Id, env, visiting)
	case typesystem.Def:
		return findNominalMembers(v.Id, env, visiting)

	case typesystem.Tuple:
		out := make([]Info, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = Info{Key: typesystem.IntKey(int64(i + 1)), Type: e}
		}
		return out

	case typesystem.Object:
		out := make([]Info, 0, len(v.Fields))
		for k, ft := range v.Fields {
			out = append(out, Info{Key: k, Type: ft})
		}
		return out

	case typesystem.Union:
		var out []Info
		for _, arm := range v.Types {
			out = append(out, findMembers(arm, env, visiting)...)
		}
		return out

	case typesystem.Intersection:
		return intersectMembers(v.Types, env, visiting)

	case typesystem.Generic:
		return findGenericMembers(v, env, visiting)

	case typesystem.Instance:
		out := membersFromIndex(env, db.ElementOwner(v.Range.File, v.Range.Range))
		return append(out, findMembers(v.Base, env, visiting)...)

	case typesystem.Namespace:
		return nil // namespace children come from the type index's prefix search; wired by internal/semantic.

	case typesystem.Nullable:
		return findMembers(v.Elem, env, visiting)

	default:
		if v == typesystem.GlobalType {
			return globalMembers(env)
		}
		return nil
	}
}

func membersFromIndex(env *Env, owner db.MemberOwner) []Info {
	if env.Members == nil {
		return nil
	}
	mems := env.Members.MembersOf(owner)
	out := make([]Info, len(mems))
	for i, m := range mems {
		out[i] = Info{Key: m.Key, Type: m.Type, Feature: m.Feature}
	}
	return out
}

func findNominalMembers(id ids.TypeDeclId, env *Env, visiting map[ids.TypeDeclId]bool) []Info {
	if visiting[id] {
		return nil
	}
	visiting[id] = true
	defer delete(visiting, id)

	if env.IsAlias != nil {
		if origin, _, isAlias := env.IsAlias(id); isAlias {
			return findMembers(origin, env, visiting)
		}
	}

	out := membersFromIndex(env, db.TypeOwner(id))
	if env.Types != nil {
		for _, super := range env.Types.AllSupersTransitive(id) {
			out = append(out, findMembers(super, env, visiting)...)
		}
	}
	return out
}

func findGenericMembers(g typesystem.Generic, env *Env, visiting map[ids.TypeDeclId]bool) []Info {
	base := findNominalMembers(g.Base, env, visiting)
	if env.GenericParamIds == nil || env.GenericEnv == nil {
		return base
	}
	tplIds := env.GenericParamIds(g.Base)
	subst := generic.FromTypeArray(tplIds, g.Params)
	out := make([]Info, len(base))
	for i, m := range base {
		out[i] = Info{Key: m.Key, Type: generic.Instantiate(m.Type, subst, env.GenericEnv), Feature: m.Feature, PropertyOwnerId: m.PropertyOwnerId}
	}
	// supers mentioning a template parameter are instantiated with the
	// current params and their members included too (spec.md §4.9).
	if env.Types != nil {
		for _, super := range env.Types.Supers[g.Base] {
			if !typesystem.ContainsTemplate(super) {
				continue
			}
			inst := generic.Instantiate(super, subst, env.GenericEnv)
			out = append(out, findMembers(inst, env, visiting)...)
		}
	}
	return out
}

func intersectMembers(types []typesystem.Type, env *Env, visiting map[ids.TypeDeclId]bool) []Info {
	if len(types) == 0 {
		return nil
	}
	sets := make([][]Info, len(types))
	for i, t := range types {
		sets[i] = findMembers(t, env, visiting)
	}
	byKey := make(map[typesystem.MemberKey][]Info)
	var order []typesystem.MemberKey
	for _, s := range sets {
		for _, m := range s {
			if _, seen := byKey[m.Key]; !seen {
				order = append(order, m.Key)
			}
			byKey[m.Key] = append(byKey[m.Key], m)
		}
	}
	var out []Info
	for _, k := range order {
		ms := byKey[k]
		if len(ms) != len(types) {
			continue // a key not present in every arm never survives an intersection.
		}
		allEqual := true
		for _, m := range ms[1:] {
			if !typesystem.Equal(m.Type, ms[0].Type) {
				allEqual = false
				break
			}
		}
		if allEqual {
			out = append(out, ms[0])
		}
	}
	return out
}

func globalMembers(env *Env) []Info {
	if env.Globals == nil {
		return nil
	}
	out := make([]Info, 0, len(env.Globals.Names()))
	for _, n := range env.Globals.Names() {
		out = append(out, Info{Key: typesystem.NameKey(n)})
	}
	return out
}

// FindMemberByKey is the fast path used by index-expression inference
// (spec.md §4.9): short-circuits on the first match.
func FindMemberByKey(t typesystem.Type, key typesystem.MemberKey, env *Env) (Info, bool) {
	for _, m := range FindMembers(t, env) {
		if memberKeyEqual(m.Key, key) {
			return m, true
		}
	}
	return Info{}, false
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
