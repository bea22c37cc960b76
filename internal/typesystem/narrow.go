package typesystem

// This file holds the small set of type-lattice operations the flow
// analyzer's condition-assertion algebra (spec.md §4.7) needs on top of
// NormalizeUnion/Remove: truthiness splitting and "narrow to a primitive
// family" (the `type(x) == "string"` scenario, spec.md §8 Boundaries).
// Grounded on the same shape as Remove/NormalizeUnion in normalize.go.

// IsFalsy reports whether t can only ever hold a falsy value: Nil, or
// the literal BoolConst(false).
func IsFalsy(t Type) bool {
	switch v := t.(type) {
	case Prim:
		return v == Nil.(Prim)
	case BoolConst:
		return !v.Value
	default:
		return false
	}
}

// RemoveFalsy narrows t to the members that can be truthy: Nil and
// BoolConst(false) are dropped, and Nullable(T) collapses to T (spec.md
// §4.7 "Truthiness of a direct use -> Remove(Nil|false) on true branch").
func RemoveFalsy(t Type) Type {
	if n, ok := t.(Nullable); ok {
		return RemoveFalsy(n.Elem)
	}
	kept := make([]Type, 0, 1)
	for _, m := range membersOf(t) {
		if IsFalsy(m) {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return Nil
	}
	return NormalizeUnion(kept)
}

// OnlyFalsy narrows t to the members that can be falsy, used on the
// false branch of a bare truthiness check (spec.md §4.7 "Narrow(Nil|
// false) on false [branch]").
func OnlyFalsy(t Type) Type {
	kept := make([]Type, 0, 1)
	for _, m := range membersOf(t) {
		if IsFalsy(m) {
			kept = append(kept, m)
			continue
		}
		if n, ok := m.(Nullable); ok {
			_ = n
			kept = append(kept, Nil)
		}
	}
	if len(kept) == 0 {
		return Nil
	}
	return NormalizeUnion(kept)
}

// PrimitiveFamily names the runtime-reflection family a value belongs to
// (the string a `type(x)` builtin would return), used to implement the
// `type(x) == "string"` narrowing scenario (spec.md §4.7, §8).
func PrimitiveFamily(t Type) (string, bool) {
	switch v := t.(type) {
	case Prim:
		switch v {
		case Nil.(Prim):
			return "nil", true
		case Boolean.(Prim):
			return "boolean", true
		case String.(Prim):
			return "string", true
		case Integer.(Prim), Number.(Prim):
			return "number", true
		case TableType.(Prim):
			return "table", true
		case Function.(Prim):
			return "function", true
		case Thread.(Prim):
			return "thread", true
		case Userdata.(Prim):
			return "userdata", true
		}
	case IntConst, FloatConst:
		return "number", true
	case StringConst, DocStringConst:
		return "string", true
	case BoolConst:
		return "boolean", true
	case TableConst, Object, Instance, TableGeneric:
		return "table", true
	case Signature, DocFunction:
		return "function", true
	}
	return "", false
}

// NarrowToFamily keeps only the union members whose PrimitiveFamily
// matches family (the true branch of `type(x) == "<family>"`).
func NarrowToFamily(t Type, family string) Type {
	kept := make([]Type, 0, 1)
	for _, m := range membersOf(t) {
		if f, ok := PrimitiveFamily(m); ok && f == family {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		// nothing in t could ever be this family: the branch is dead, but
		// we report Unknown rather than fabricating a new member, matching
		// the engine's permissive default (spec.md §7 "permissive").
		return Unknown
	}
	return NormalizeUnion(kept)
}

// RemoveFamily is the false-branch complement of NarrowToFamily.
func RemoveFamily(t Type, family string) Type {
	kept := make([]Type, 0, 1)
	for _, m := range membersOf(t) {
		if f, ok := PrimitiveFamily(m); ok && f == family {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return Nil
	}
	return NormalizeUnion(kept)
}

// Intersect narrows t by compact-with b. It returns b in every case,
// whether or not some member of t equals b; t's members are not
// otherwise consulted. Used by `x == literal` assertions (spec.md §4.7
// "Force(literal)").
func Intersect(t, b Type) Type {
	for _, m := range membersOf(t) {
		if Equal(m, b) {
			return b
		}
	}
	return b
}
