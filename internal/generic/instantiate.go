package generic

import (
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// Env supplies the db/compat lookups instantiation needs without
// importing internal/db or internal/compat directly — both of those
// packages in turn call into Instantiate (db to expand aliases, compat
// to evaluate an Extends alias call), so the dependency is inverted
// here via callbacks supplied by whichever caller sits above both
// (internal/infer wires the concrete Env). This keeps generic a leaf
// package, matching the teacher's own layering where internal/typesystem
// never imports internal/symbols.
type Env struct {
	// AliasOrigin returns the origin type and template-parameter ids of
	// an alias declaration, or ok=false if id doesn't name an alias.
	AliasOrigin func(id ids.TypeDeclId) (origin typesystem.Type, tplIds []ids.TplId, ok bool)
	// CheckCompatible evaluates `Extends A B` (spec.md §4.3).
	CheckCompatible func(source, compact typesystem.Type) bool
	// SignatureShape converts a Signature(id) to its DocFunction shape
	// plus any overloads (spec.md §4.3 "Signature(id) in the
	// substitutor's scope is converted to its DocFunction shape first").
	SignatureShape func(id ids.SignatureId) (base typesystem.FunctionType, overloads []typesystem.FunctionType, ok bool)
}

// Instantiate rewrites t by replacing every reachable template leaf via
// subst (spec.md §4.3). Structural nodes recurse; AliasCall nodes
// evaluate after their operands are instantiated.
func Instantiate(t typesystem.Type, subst *Substitutor, env *Env) typesystem.Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case typesystem.TplRef:
		return instantiateTplLeaf(v.Id, t, subst)
	case typesystem.FuncTplRef:
		return instantiateTplLeaf(v.Id, t, subst)
	case typesystem.StrTplRef:
		val, ok := subst.Lookup(v.Id)
		if !ok {
			return t
		}
		base, ok := val.First()
		if !ok {
			return t
		}
		if sc, ok := base.(typesystem.StringConst); ok {
			return typesystem.StringConst{Value: v.Prefix + sc.Value + v.Suffix}
		}
		return t

	case typesystem.Array:
		return typesystem.Array{Elem: Instantiate(v.Elem, subst, env)}
	case typesystem.Nullable:
		return typesystem.NewNullable(Instantiate(v.Elem, subst, env))
	case typesystem.KeyOf:
		return typesystem.KeyOf{Target: Instantiate(v.Target, subst, env)}
	case typesystem.Tuple:
		return typesystem.Tuple{Elems: instantiateAll(v.Elems, subst, env)}
	case typesystem.Object:
		fields := make(map[typesystem.MemberKey]typesystem.Type, len(v.Fields))
		for k, ft := range v.Fields {
			fields[k] = Instantiate(ft, subst, env)
		}
		idx := make([]typesystem.IndexAccessEntry, len(v.IndexAccess))
		for i, e := range v.IndexAccess {
			idx[i] = typesystem.IndexAccessEntry{Key: Instantiate(e.Key, subst, env), Value: Instantiate(e.Value, subst, env)}
		}
		return typesystem.Object{Fields: fields, IndexAccess: idx}
	case typesystem.Union:
		return typesystem.NormalizeUnion(instantiateAll(v.Types, subst, env))
	case typesystem.Intersection:
		return typesystem.NormalizeIntersection(instantiateAll(v.Types, subst, env))
	case typesystem.Extends:
		return typesystem.Extends{Base: Instantiate(v.Base, subst, env), Ext: Instantiate(v.Ext, subst, env)}
	case typesystem.Generic:
		return instantiateGeneric(v, subst, env)
	case typesystem.TableGeneric:
		return typesystem.TableGeneric{Entries: instantiateAll(v.Entries, subst, env)}
	case typesystem.MultiReturn:
		if v.Kind == typesystem.MultiReturnBase {
			return typesystem.MultiReturn{Kind: typesystem.MultiReturnBase, Base: Instantiate(v.Base, subst, env)}
		}
		return typesystem.MultiReturn{Kind: typesystem.MultiReturnMulti, Multi: instantiateAll(v.Multi, subst, env)}
	case typesystem.Variadic:
		return instantiateVariadic(v, subst, env)
	case typesystem.DocFunction:
		return typesystem.DocFunction{Fn: instantiateFunc(v.Fn, subst, env)}
	case typesystem.Instance:
		return typesystem.Instance{Base: Instantiate(v.Base, subst, env), Range: v.Range}
	case typesystem.TypeGuard:
		return typesystem.TypeGuard{Inner: Instantiate(v.Inner, subst, env)}
	case typesystem.MultiLineUnion:
		arms := make([]typesystem.MultiLineUnionArm, len(v.Arms))
		for i, a := range v.Arms {
			arms[i] = typesystem.MultiLineUnionArm{Type: Instantiate(a.Type, subst, env), Description: a.Description}
		}
		return typesystem.MultiLineUnion{Arms: arms}
	case typesystem.AliasCall:
		return evalAliasCall(v, subst, env)
	case typesystem.Signature:
		if env == nil || env.SignatureShape == nil {
			return t
		}
		base, overloads, ok := env.SignatureShape(v.Id)
		if !ok {
			return t
		}
		instBase := instantiateFunc(base, subst, env)
		if len(overloads) == 0 {
			return typesystem.DocFunction{Fn: instBase}
		}
		arms := make([]typesystem.Type, 0, len(overloads)+1)
		for _, o := range overloads {
			arms = append(arms, typesystem.DocFunction{Fn: instantiateFunc(o, subst, env)})
		}
		arms = append(arms, typesystem.DocFunction{Fn: instBase})
		return typesystem.NormalizeUnion(arms)
	default:
		return t
	}
}

func instantiateTplLeaf(id ids.TplId, leaf typesystem.Type, subst *Substitutor) typesystem.Type {
	val, ok := subst.Lookup(id)
	if !ok {
		return leaf
	}
	if val.Type != nil {
		return val.Type
	}
	if len(val.MultiTypes) > 0 {
		return val.MultiTypes[0]
	}
	if len(val.Params) > 0 {
		return val.Params[0].Type
	}
	if val.MultiBase != nil {
		return val.MultiBase
	}
	return leaf
}

func instantiateVariadic(v typesystem.Variadic, subst *Substitutor, env *Env) typesystem.Type {
	if ref, ok := v.Inner.Base.(typesystem.TplRef); v.Inner.Kind == typesystem.VariadicBase && ok {
		return expandVariadicSubst(ref.Id, subst)
	}
	if ref, ok := v.Inner.Base.(typesystem.FuncTplRef); v.Inner.Kind == typesystem.VariadicBase && ok {
		return expandVariadicSubst(ref.Id, subst)
	}
	if v.Inner.Kind == typesystem.VariadicBase {
		return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicBase, Base: Instantiate(v.Inner.Base, subst, env)}}
	}
	return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicMulti, Multi: instantiateAll(v.Inner.Multi, subst, env)}}
}

// expandVariadicSubst implements spec.md §4.3 "Variadic(TplRef): expand
// per the SubstValue shape (MultiTypes -> MultiReturn::Multi, Params ->
// flatten names, MultiBase -> MultiReturn::Base)".
func expandVariadicSubst(id ids.TplId, subst *Substitutor) typesystem.Type {
	val, ok := subst.Lookup(id)
	if !ok {
		return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicBase, Base: typesystem.Any}}
	}
	switch {
	case len(val.MultiTypes) > 0:
		return typesystem.MultiReturn{Kind: typesystem.MultiReturnMulti, Multi: val.MultiTypes}
	case len(val.Params) > 0:
		ts := make([]typesystem.Type, len(val.Params))
		for i, p := range val.Params {
			ts[i] = p.Type
		}
		return typesystem.MultiReturn{Kind: typesystem.MultiReturnMulti, Multi: ts}
	case val.MultiBase != nil:
		return typesystem.MultiReturn{Kind: typesystem.MultiReturnBase, Base: val.MultiBase}
	case val.Type != nil:
		return typesystem.MultiReturn{Kind: typesystem.MultiReturnBase, Base: val.Type}
	default:
		return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicBase, Base: typesystem.Any}}
	}
}

func instantiateGeneric(v typesystem.Generic, subst *Substitutor, env *Env) typesystem.Type {
	params := instantiateAll(v.Params, subst, env)
	if env == nil || env.AliasOrigin == nil {
		return typesystem.Generic{Base: v.Base, Params: params}
	}
	origin, tplIds, ok := env.AliasOrigin(v.Base)
	if !ok {
		return typesystem.Generic{Base: v.Base, Params: params}
	}
	if subst.CheckRecursion(v.Base) {
		return typesystem.Generic{Base: v.Base, Params: params}
	}
	nested := FromAlias(tplIds, params, v.Base, subst)
	return Instantiate(origin, nested, env)
}

func instantiateFunc(f typesystem.FunctionType, subst *Substitutor, env *Env) typesystem.FunctionType {
	params := make([]typesystem.Param, len(f.Params))
	for i, p := range f.Params {
		params[i] = typesystem.Param{Name: p.Name, Type: Instantiate(p.Type, subst, env), Optional: p.Optional}
	}
	out := typesystem.FunctionType{
		Params:        params,
		Return:        Instantiate(f.Return, subst, env),
		IsVariadic:    f.IsVariadic,
		IsColonDefine: f.IsColonDefine,
		GenericParams: f.GenericParams,
	}
	if f.VariadicType != nil {
		out.VariadicType = Instantiate(f.VariadicType, subst, env)
	}
	return out
}

func instantiateAll(ts []typesystem.Type, subst *Substitutor, env *Env) []typesystem.Type {
	out := make([]typesystem.Type, len(ts))
	for i, t := range ts {
		out[i] = Instantiate(t, subst, env)
	}
	return out
}

// evalAliasCall implements spec.md §4.3's built-in alias calls, after
// operands are already instantiated (the caller is expected to have
// instantiated v.Operands' templates already via the switch above — we
// instantiate them here too since AliasCall may itself sit under a
// template leaf the outer switch never visited).
func evalAliasCall(v typesystem.AliasCall, subst *Substitutor, env *Env) typesystem.Type {
	ops := instantiateAll(v.Operands, subst, env)
	switch v.Kind {
	case typesystem.AliasKeyOf:
		if len(ops) == 0 {
			return typesystem.Unknown
		}
		return keyOfUnion(ops[0])
	case typesystem.AliasExtends:
		if len(ops) < 2 || env == nil || env.CheckCompatible == nil {
			return typesystem.Unknown
		}
		return typesystem.BoolConst{Value: env.CheckCompatible(ops[0], ops[1])}
	case typesystem.AliasAdd:
		if len(ops) < 2 {
			return typesystem.Unknown
		}
		return typesystem.NormalizeUnion([]typesystem.Type{ops[0], ops[1]})
	case typesystem.AliasSub:
		if len(ops) < 2 {
			return typesystem.Unknown
		}
		return typesystem.Remove(ops[0], ops[1])
	case typesystem.AliasSelect:
		return evalSelect(ops)
	case typesystem.AliasUnpack:
		if len(ops) == 0 {
			return typesystem.Unknown
		}
		return evalUnpack(ops[0])
	case typesystem.AliasRawGet:
		if len(ops) < 2 {
			return typesystem.Unknown
		}
		return ops[0]
	default:
		return typesystem.Unknown
	}
}

func keyOfUnion(t typesystem.Type) typesystem.Type {
	var keys []typesystem.Type
	switch v := t.(type) {
	case typesystem.Object:
		for k := range v.Fields {
			switch k.Kind {
			case typesystem.KeyName:
				keys = append(keys, typesystem.StringConst{Value: k.Name})
			case typesystem.KeyInteger:
				keys = append(keys, typesystem.IntConst{Value: k.Int})
			}
		}
	}
	if len(keys) == 0 {
		return typesystem.Unknown
	}
	return typesystem.NormalizeUnion(keys)
}

func evalSelect(ops []typesystem.Type) typesystem.Type {
	if len(ops) < 2 {
		return typesystem.Integer
	}
	idxType, src := ops[0], ops[1]
	elems := multiReturnElems(src)
	if sc, ok := idxType.(typesystem.StringConst); ok && sc.Value == "#" {
		return typesystem.IntConst{Value: int64(len(elems))}
	}
	ic, ok := idxType.(typesystem.IntConst)
	if !ok {
		return typesystem.Integer
	}
	i := ic.Value
	if i < 0 {
		i = int64(len(elems)) + i + 1
	}
	if i < 1 || int(i) > len(elems) {
		return typesystem.Nil
	}
	rest := elems[i-1:]
	if len(rest) == 1 {
		return rest[0]
	}
	return typesystem.MultiReturn{Kind: typesystem.MultiReturnMulti, Multi: rest}
}

func multiReturnElems(t typesystem.Type) []typesystem.Type {
	switch v := t.(type) {
	case typesystem.MultiReturn:
		if v.Kind == typesystem.MultiReturnMulti {
			return v.Multi
		}
		return []typesystem.Type{v.Base}
	case typesystem.Tuple:
		return v.Elems
	default:
		return []typesystem.Type{t}
	}
}

func evalUnpack(t typesystem.Type) typesystem.Type {
	switch v := t.(type) {
	case typesystem.Tuple:
		return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicMulti, Multi: v.Elems}}
	case typesystem.Array:
		return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicBase, Base: v.Elem}}
	default:
		return typesystem.Variadic{Inner: typesystem.VariadicType{Kind: typesystem.VariadicBase, Base: typesystem.Any}}
	}
}
