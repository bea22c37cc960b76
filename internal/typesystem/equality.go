package typesystem

import "sort"

// Equal implements the structural-equality invariant from spec.md §3.1:
// equal for every variant except the large composites, where identity
// (pointer/slice header) would be used if this were a pointer-sharing
// implementation — here, since Go has no ambient arena, we always fall
// back to structural comparison, but keep the same recursive shape so
// Hash (below) can be defined consistently ("hash must agree with
// equality").
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	// Nullable(Nullable(T)) == Nullable(T): construction already
	// collapses this, so plain tag+field comparison below is sufficient
	// as long as every constructor goes through NewNullable.
	//
	// MultiLineUnion carries no information Equal/Hash care about beyond
	// its arms, so both sides are reduced to their canonical Union form
	// first — keeps the relation symmetric (Equal(Union, MultiLineUnion)
	// must agree with Equal(MultiLineUnion, Union)) and keeps Hash, below,
	// consistent with it.
	a = canonicalUnion(a)
	b = canonicalUnion(b)
	switch av := a.(type) {
	case Prim:
		bv, ok := b.(Prim)
		return ok && av.kind == bv.kind
	case IntConst:
		bv, ok := b.(IntConst)
		return ok && av.Value == bv.Value
	case FloatConst:
		bv, ok := b.(FloatConst)
		return ok && av.Value == bv.Value
	case StringConst:
		bv, ok := b.(StringConst)
		return ok && av.Value == bv.Value
	case BoolConst:
		bv, ok := b.(BoolConst)
		return ok && av.Value == bv.Value
	case TableConst:
		bv, ok := b.(TableConst)
		return ok && av.Range == bv.Range
	case DocIntConst:
		bv, ok := b.(DocIntConst)
		return ok && av.Value == bv.Value
	case DocStringConst:
		bv, ok := b.(DocStringConst)
		return ok && av.Value == bv.Value
	case DocBoolConst:
		bv, ok := b.(DocBoolConst)
		return ok && av.Value == bv.Value
	case Ref:
		bv, ok := b.(Ref)
		return ok && av.Id == bv.Id
	case Def:
		bv, ok := b.(Def)
		return ok && av.Id == bv.Id
	case Signature:
		bv, ok := b.(Signature)
		return ok && av.Id == bv.Id
	case Module:
		bv, ok := b.(Module)
		return ok && av.Path == bv.Path
	case Array:
		bv, ok := b.(Array)
		return ok && Equal(av.Elem, bv.Elem)
	case Nullable:
		bv, ok := b.(Nullable)
		return ok && Equal(av.Elem, bv.Elem)
	case KeyOf:
		bv, ok := b.(KeyOf)
		return ok && Equal(av.Target, bv.Target)
	case Tuple:
		bv, ok := b.(Tuple)
		return ok && typeSliceEqual(av.Elems, bv.Elems)
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av.Fields) != len(bv.Fields) || len(av.IndexAccess) != len(bv.IndexAccess) {
			return false
		}
		for k, vt := range av.Fields {
			other, ok := bv.Fields[k]
			if !ok || !Equal(vt, other) {
				return false
			}
		}
		for i, e := range av.IndexAccess {
			if !Equal(e.Key, bv.IndexAccess[i].Key) || !Equal(e.Value, bv.IndexAccess[i].Value) {
				return false
			}
		}
		return true
	case Union:
		bv, ok := b.(Union)
		return ok && typeSliceEqual(av.Types, bv.Types)
	case Intersection:
		bv, ok := b.(Intersection)
		return ok && typeSliceEqual(av.Types, bv.Types)
	case Extends:
		bv, ok := b.(Extends)
		return ok && Equal(av.Base, bv.Base) && Equal(av.Ext, bv.Ext)
	case Generic:
		bv, ok := b.(Generic)
		return ok && av.Base == bv.Base && typeSliceEqual(av.Params, bv.Params)
	case TableGeneric:
		bv, ok := b.(TableGeneric)
		return ok && typeSliceEqual(av.Entries, bv.Entries)
	case DocFunction:
		bv, ok := b.(DocFunction)
		return ok && functionTypeEqual(av.Fn, bv.Fn)
	case Instance:
		bv, ok := b.(Instance)
		return ok && Equal(av.Base, bv.Base) && av.Range == bv.Range
	case TplRef:
		bv, ok := b.(TplRef)
		return ok && av.Id == bv.Id
	case FuncTplRef:
		bv, ok := b.(FuncTplRef)
		return ok && av.Id == bv.Id
	case StrTplRef:
		bv, ok := b.(StrTplRef)
		return ok && av.Id == bv.Id && av.Prefix == bv.Prefix && av.Suffix == bv.Suffix
	case Variadic:
		bv, ok := b.(Variadic)
		return ok && variadicTypeEqual(av.Inner, bv.Inner)
	case MultiReturn:
		bv, ok := b.(MultiReturn)
		if !ok || av.Kind != bv.Kind {
			return false
		}
		if av.Kind == MultiReturnBase {
			return Equal(av.Base, bv.Base)
		}
		return typeSliceEqual(av.Multi, bv.Multi)
	case AliasCall:
		bv, ok := b.(AliasCall)
		return ok && av.Kind == bv.Kind && typeSliceEqual(av.Operands, bv.Operands)
	case TypeGuard:
		bv, ok := b.(TypeGuard)
		return ok && Equal(av.Inner, bv.Inner)
	case Namespace:
		bv, ok := b.(Namespace)
		return ok && av.Path == bv.Path
	default:
		return false
	}
}

// canonicalUnion reduces a MultiLineUnion to the plain Union (or, if it
// collapses to a single arm, that arm) it denotes, so Equal and Hash
// never have to special-case it against a doc-less Union for the same
// set of arms.
func canonicalUnion(t Type) Type {
	if m, ok := t.(MultiLineUnion); ok {
		return m.AsUnion()
	}
	return t
}

func typeSliceEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func functionTypeEqual(a, b FunctionType) bool {
	if len(a.Params) != len(b.Params) || a.IsVariadic != b.IsVariadic || a.IsColonDefine != b.IsColonDefine {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Name != b.Params[i].Name || a.Params[i].Optional != b.Params[i].Optional {
			return false
		}
		if !Equal(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	if a.IsVariadic {
		if (a.VariadicType == nil) != (b.VariadicType == nil) {
			return false
		}
		if a.VariadicType != nil && !Equal(a.VariadicType, b.VariadicType) {
			return false
		}
	}
	return Equal(a.Return, b.Return)
}

func variadicTypeEqual(a, b VariadicType) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == VariadicBase {
		return Equal(a.Base, b.Base)
	}
	return typeSliceEqual(a.Multi, b.Multi)
}

// Hash returns a hash consistent with Equal: Equal(a,b) implies
// Hash(a) == Hash(b) (spec.md §8 "Hash-eq agreement"). Built from the
// string rendering plus the type tag, which is sufficient because
// String() is already a faithful structural rendering for every
// variant (field values are embedded verbatim, sorted where order is
// not significant).
func Hash(t Type) uint64 {
	if t == nil {
		return 0
	}
	t = canonicalUnion(t)
	s := t.typeTag() + "\x00" + t.String()
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}

// SortTypesByString is a small helper used by several packages (members,
// compat) that need deterministic iteration order over a type slice.
func SortTypesByString(ts []Type) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].String() < ts[j].String() })
}
