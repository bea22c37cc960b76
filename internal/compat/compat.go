// Package compat implements the directional type-compatibility checker
// (spec.md §4.8): "is compact acceptable where source is expected?".
// Grounded on the teacher's internal/typesystem/unify.go (now deleted),
// whose unifyInternal carried the same directional-check-plus-
// recursion-guard shape over the old HM lattice; here redone over the
// new tagged-sum Type and widened to nominal/union/literal semantics.
package compat

import (
	"fmt"

	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// ResultKind is the outcome of Check (spec.md §4.8, §7).
type ResultKind uint8

const (
	Ok ResultKind = iota
	TypeNotMatch
	TypeNotMatchWithReason
	TypeRecursion
	DonotCheck
)

// Result carries the verbatim reason when one is available (spec.md
// §4.8 "when a reason is available ... it is returned verbatim").
type Result struct {
	Kind   ResultKind
	Reason string
}

func ok() Result                  { return Result{Kind: Ok} }
func notMatch() Result            { return Result{Kind: TypeNotMatch} }
func reason(format string, a ...interface{}) Result {
	return Result{Kind: TypeNotMatchWithReason, Reason: fmt.Sprintf(format, a...)}
}

// EnumMember is one constant of an enum declaration.
type EnumMember struct {
	Name  string
	Value typesystem.Type
}

// Env supplies every db lookup Check needs, kept decoupled from
// internal/db so compat stays a mid-layer package (generic below it, db
// above it) the way internal/typesystem never imported internal/symbols
// in the teacher.
type Env struct {
	AliasOrigin     func(id ids.TypeDeclId) (origin typesystem.Type, tplIds []ids.TplId, ok bool)
	IsEnum          func(id ids.TypeDeclId) (valueType typesystem.Type, members []EnumMember, keyed bool, ok bool)
	IsClass         func(id ids.TypeDeclId) bool
	ClassFields     func(id ids.TypeDeclId) map[typesystem.MemberKey]typesystem.Type
	Supers          func(id ids.TypeDeclId) []typesystem.Type // transitive, cycle-safe
	TableConstKeys  func(t typesystem.TableConst) map[typesystem.MemberKey]typesystem.Type
	StrictDocIntMatchInt bool
	// StrictClassInheritance gates the permissive super-type acceptance
	// below (spec.md §9 Open Question, config key strict.classInheritance,
	// DESIGN.md): false (the default) preserves the source's permissive
	// behavior; true rejects a super-type where a class is expected.
	StrictClassInheritance bool
	GenericEnv      *generic.Env
}

const maxDepth = 64

// Check is the directional compatibility relation (spec.md §4.8).
func Check(source, compact typesystem.Type, env *Env) Result {
	return check(source, compact, env, 0)
}

func check(source, compact typesystem.Type, env *Env, depth int) Result {
	if depth > maxDepth {
		return Result{Kind: TypeRecursion}
	}
	if source == nil || compact == nil {
		return Result{Kind: DonotCheck}
	}

	switch src := source.(type) {
	case typesystem.Prim:
		return checkPrim(src, compact, env, depth)

	case typesystem.IntConst:
		if c, ok := compact.(typesystem.IntConst); ok && c.Value == src.Value {
			return ok_()
		}
		if c, ok := compact.(typesystem.DocIntConst); ok && (c.Value == src.Value) {
			return ok_()
		}
		return notMatch()
	case typesystem.FloatConst:
		if c, ok := compact.(typesystem.FloatConst); ok && c.Value == src.Value {
			return ok_()
		}
		return notMatch()
	case typesystem.StringConst:
		if c, ok := compact.(typesystem.StringConst); ok && c.Value == src.Value {
			return ok_()
		}
		if c, ok := compact.(typesystem.DocStringConst); ok && c.Value == src.Value {
			return ok_()
		}
		return notMatch()
	case typesystem.BoolConst:
		if c, ok := compact.(typesystem.BoolConst); ok && c.Value == src.Value {
			return ok_()
		}
		return notMatch()

	case typesystem.DocFunction:
		return checkFunc(src.Fn, compact, env, depth)

	case typesystem.Tuple:
		return checkTupleSource(src, compact, env, depth)

	case typesystem.Object:
		return checkObjectSource(src, compact, env, depth)

	case typesystem.Union:
		return checkUnionSource(src, compact, env, depth)

	case typesystem.Intersection:
		for _, m := range src.Types {
			if r := check(m, compact, env, depth+1); r.Kind != Ok {
				return r
			}
		}
		return ok_()

	case typesystem.Ref:
		return checkNominalSource(src.Id, compact, env, depth)
	case typesystem.Def:
		return checkNominalSource(src.Id, compact, env, depth)

	case typesystem.Generic:
		return checkGenericSource(src, compact, env, depth)

	case typesystem.Nullable:
		if typesystem.IsNil(compact) {
			return ok_()
		}
		return check(src.Elem, compact, env, depth+1)

	case typesystem.TplRef, typesystem.FuncTplRef:
		return ok_()
	case typesystem.StrTplRef:
		if _, ok := compact.(typesystem.StringConst); ok {
			return ok_()
		}
		return ok_()

	case typesystem.Array:
		return checkArraySource(src, compact, env, depth)

	case typesystem.TableGeneric:
		return ok_() // permissive: table<K,V> accepts anything table-shaped.

	case typesystem.Signature:
		// Treated as any function; downstream call-site checks operate
		// on the resolved FunctionType instead of the bare Signature ref.
		return ok_()

	default:
		return ok_()
	}
}

func ok_() Result { return Result{Kind: Ok} }

func checkPrim(src typesystem.Prim, compact typesystem.Type, env *Env, depth int) Result {
	switch src.String() {
	case "any", "unknown", "self":
		return ok_()
	}
	switch src {
	case typesystem.Number.(typesystem.Prim), typesystem.Integer.(typesystem.Prim):
		switch c := compact.(type) {
		case typesystem.IntConst, typesystem.FloatConst:
			return ok_()
		case typesystem.DocIntConst:
			if src == typesystem.Integer.(typesystem.Prim) && env != nil && !env.StrictDocIntMatchInt {
				return notMatch()
			}
			_ = c
			return ok_()
		case typesystem.Prim:
			if c == typesystem.Integer.(typesystem.Prim) || c == typesystem.Number.(typesystem.Prim) {
				return ok_()
			}
		}
		return notMatch()
	case typesystem.String.(typesystem.Prim):
		switch compact.(type) {
		case typesystem.StringConst, typesystem.DocStringConst:
			return ok_()
		case typesystem.Prim:
			if compact.(typesystem.Prim) == typesystem.String.(typesystem.Prim) {
				return ok_()
			}
		}
		return notMatch()
	case typesystem.Boolean.(typesystem.Prim):
		switch compact.(type) {
		case typesystem.BoolConst:
			return ok_()
		case typesystem.Prim:
			if compact.(typesystem.Prim) == typesystem.Boolean.(typesystem.Prim) {
				return ok_()
			}
		}
		return notMatch()
	default:
		if cp, ok := compact.(typesystem.Prim); ok && cp == src {
			return ok_()
		}
		if _, ok := compact.(typesystem.Nullable); ok && typesystem.IsNil(src) {
			return ok_()
		}
		if typesystem.IsNil(src) && typesystem.IsNil(compact) {
			return ok_()
		}
		return notMatch()
	}
}

func checkArraySource(src typesystem.Array, compact typesystem.Type, env *Env, depth int) Result {
	switch c := compact.(type) {
	case typesystem.Array:
		return check(src.Elem, c.Elem, env, depth+1)
	case typesystem.Tuple:
		for _, e := range c.Elems {
			if r := check(src.Elem, e, env, depth+1); r.Kind != Ok {
				return r
			}
		}
		return ok_()
	default:
		return notMatch()
	}
}

func checkTupleSource(src typesystem.Tuple, compact typesystem.Type, env *Env, depth int) Result {
	var elems []typesystem.Type
	switch c := compact.(type) {
	case typesystem.Tuple:
		elems = c.Elems
	case typesystem.Array:
		for range src.Elems {
			elems = append(elems, c.Elem)
		}
	case typesystem.TableConst:
		if env != nil && env.TableConstKeys != nil {
			keys := env.TableConstKeys(c)
			for i := range src.Elems {
				if t, ok := keys[typesystem.IntKey(int64(i + 1))]; ok {
					elems = append(elems, t)
				} else {
					elems = append(elems, typesystem.Nil)
				}
			}
		}
	default:
		return notMatch()
	}
	si := 0
	ci := 0
	for si < len(src.Elems) {
		se := src.Elems[si]
		if v, isVar := se.(typesystem.Variadic); isVar {
			for ci < len(elems) {
				if r := check(v.Inner.Base, elems[ci], env, depth+1); r.Kind != Ok {
					return r
				}
				ci++
			}
			si++
			continue
		}
		if ci >= len(elems) {
			return notMatch()
		}
		if r := check(se, elems[ci], env, depth+1); r.Kind != Ok {
			return r
		}
		si++
		ci++
	}
	return ok_()
}

func checkObjectSource(src typesystem.Object, compact typesystem.Type, env *Env, depth int) Result {
	var fields map[typesystem.MemberKey]typesystem.Type
	switch c := compact.(type) {
	case typesystem.Object:
		fields = c.Fields
	case typesystem.TableConst:
		if env != nil && env.TableConstKeys != nil {
			fields = env.TableConstKeys(c)
		}
	default:
		return notMatch()
	}
	for k, ft := range src.Fields {
		v, present := fields[k]
		if !present {
			if typesystem.IsOptional(ft) {
				continue
			}
			return reason("member %s: missing", k.String())
		}
		if r := check(ft, v, env, depth+1); r.Kind != Ok {
			return reason("member %s: expected %s, got %s", k.String(), ft.String(), v.String())
		}
	}
	return ok_()
}

func checkUnionSource(src typesystem.Union, compact typesystem.Type, env *Env, depth int) Result {
	if cu, ok := compact.(typesystem.Union); ok {
		for _, carm := range cu.Types {
			matched := false
			for _, sarm := range src.Types {
				if check(sarm, carm, env, depth+1).Kind == Ok {
					matched = true
					break
				}
			}
			if !matched {
				return notMatch()
			}
		}
		return ok_()
	}
	for _, sarm := range src.Types {
		if check(sarm, compact, env, depth+1).Kind == Ok {
			return ok_()
		}
	}
	return notMatch()
}

func checkNominalSource(id ids.TypeDeclId, compact typesystem.Type, env *Env, depth int) Result {
	if env == nil {
		return ok_()
	}
	if env.IsEnum != nil {
		if valType, members, keyed, isEnum := env.IsEnum(id); isEnum {
			return checkEnum(id, valType, members, keyed, compact)
		}
	}
	if env.AliasOrigin != nil {
		if origin, tplIds, isAlias := env.AliasOrigin(id); isAlias {
			_ = tplIds
			return check(origin, compact, env, depth+1)
		}
	}
	return checkClass(id, compact, env, depth)
}

func checkEnum(id ids.TypeDeclId, valType typesystem.Type, members []EnumMember, keyed bool, compact typesystem.Type) Result {
	for _, m := range members {
		if typesystem.Equal(m.Value, compact) {
			return ok_()
		}
	}
	if valType != nil && (check(valType, compact, nil, 0).Kind == Ok) {
		return ok_()
	}
	if keyed {
		if sc, ok := compact.(typesystem.StringConst); ok {
			for _, m := range members {
				if m.Name == sc.Value {
					return ok_()
				}
			}
		}
	}
	if r, ok := compact.(typesystem.Ref); ok && r.Id == id {
		return ok_()
	}
	return notMatch()
}

// checkClass implements spec.md §4.8's class rule, including the
// "documented non-goal" permissive super-type acceptance.
func checkClass(id ids.TypeDeclId, compact typesystem.Type, env *Env, depth int) Result {
	switch c := compact.(type) {
	case typesystem.Ref:
		if c.Id == id {
			return ok_()
		}
		if isSubtype(id, c.Id, env) {
			return ok_()
		}
		if !strictClassInheritance(env) && isSubtype(c.Id, id, env) {
			// permissive: accept a super-type of the class too (spec.md
			// §4.8, flagged as strict.classInheritance in DESIGN.md).
			return ok_()
		}
		return notMatch()
	case typesystem.Def:
		return checkClass(id, typesystem.Ref{Id: c.Id}, env, depth)
	case typesystem.TableConst:
		if env == nil || env.ClassFields == nil || env.TableConstKeys == nil {
			return ok_()
		}
		fields := env.ClassFields(id)
		keys := env.TableConstKeys(c)
		for k, ft := range fields {
			if typesystem.IsOptional(ft) {
				continue
			}
			v, present := keys[k]
			if !present {
				return reason("member %s: missing", k.String())
			}
			if r := check(ft, v, env, depth+1); r.Kind != Ok {
				return r
			}
		}
		return ok_()
	default:
		return notMatch()
	}
}

func strictClassInheritance(env *Env) bool {
	return env != nil && env.StrictClassInheritance
}

func isSubtype(sub, super ids.TypeDeclId, env *Env) bool {
	if env == nil || env.Supers == nil {
		return false
	}
	for _, s := range env.Supers(sub) {
		switch sv := s.(type) {
		case typesystem.Ref:
			if sv.Id == super {
				return true
			}
		case typesystem.Def:
			if sv.Id == super {
				return true
			}
		case typesystem.Generic:
			if sv.Base == super {
				return true
			}
		}
	}
	return false
}

func checkGenericSource(src typesystem.Generic, compact typesystem.Type, env *Env, depth int) Result {
	c, ok := compact.(typesystem.Generic)
	if !ok || c.Base != src.Base {
		return notMatch()
	}
	n := len(src.Params)
	if len(c.Params) < n {
		n = len(c.Params)
	}
	for i := 0; i < n; i++ {
		if r := check(src.Params[i], c.Params[i], env, depth+1); r.Kind != Ok {
			return r
		}
	}
	return ok_()
}

func checkFunc(src typesystem.FunctionType, compact typesystem.Type, env *Env, depth int) Result {
	var c typesystem.FunctionType
	switch cv := compact.(type) {
	case typesystem.DocFunction:
		c = cv.Fn
	default:
		return notMatch()
	}
	srcParams, cParams := adjustColonDot(src, c)
	n := len(srcParams)
	if len(cParams) < n {
		n = len(cParams)
	}
	for i := 0; i < n; i++ {
		// contravariant: compact's declared param type is the source for
		// this direction (caller must accept whatever the real param needs).
		if r := check(cParams[i].Type, srcParams[i].Type, env, depth+1); r.Kind != Ok {
			return r
		}
	}
	if len(srcParams) > len(cParams) {
		for _, extra := range srcParams[len(cParams):] {
			if !extra.Optional {
				return notMatch()
			}
		}
	}
	return check(src.Return, c.Return, env, depth+1)
}

// adjustColonDot prepends/drops a synthetic self parameter so arities
// compare correctly when is_colon_define disagrees between source and
// compact (spec.md §4.5 "Colon calls vs dot calls").
func adjustColonDot(src, c typesystem.FunctionType) ([]typesystem.Param, []typesystem.Param) {
	sp, cp := src.Params, c.Params
	if src.IsColonDefine && !c.IsColonDefine && len(cp) > 0 {
		cp = cp[1:]
	} else if !src.IsColonDefine && c.IsColonDefine && len(sp) > 0 {
		sp = sp[1:]
	}
	return sp, cp
}
