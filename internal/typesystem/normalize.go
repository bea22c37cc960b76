package typesystem

import "sort"

// NormalizeUnion flattens nested unions, removes duplicates (by
// structural Equal) and sorts the result for deterministic String()
// output and cheap structural comparison — mirrors the teacher's
// NormalizeUnion in the HM lattice, generalized to this package's
// richer variant set.
func NormalizeUnion(types []Type) Type {
	flat := make([]Type, 0, len(types))
	for _, t := range types {
		switch v := t.(type) {
		case Union:
			flat = append(flat, v.Types...)
		case MultiLineUnion:
			if u, ok := v.AsUnion().(Union); ok {
				flat = append(flat, u.Types...)
			} else {
				flat = append(flat, v.AsUnion())
			}
		default:
			flat = append(flat, t)
		}
	}

	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, u := range unique {
			if Equal(t, u) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, t)
		}
	}

	if len(unique) == 1 {
		return unique[0]
	}
	if len(unique) == 0 {
		return Nil
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].String() < unique[j].String() })
	return Union{Types: unique}
}

// NormalizeIntersection flattens and deduplicates like NormalizeUnion.
func NormalizeIntersection(types []Type) Type {
	flat := make([]Type, 0, len(types))
	for _, t := range types {
		if v, ok := t.(Intersection); ok {
			flat = append(flat, v.Types...)
		} else {
			flat = append(flat, t)
		}
	}
	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		dup := false
		for _, u := range unique {
			if Equal(t, u) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, t)
		}
	}
	if len(unique) == 1 {
		return unique[0]
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].String() < unique[j].String() })
	return Intersection{Types: unique}
}

// Remove implements the Sub alias call: the members of a that are not
// structurally present in (the union of) b.
func Remove(a, b Type) Type {
	bMembers := membersOf(b)
	aMembers := membersOf(a)
	kept := make([]Type, 0, len(aMembers))
	for _, m := range aMembers {
		present := false
		for _, bm := range bMembers {
			if Equal(m, bm) {
				present = true
				break
			}
		}
		if !present {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return Nil
	}
	return NormalizeUnion(kept)
}

func membersOf(t Type) []Type {
	switch v := t.(type) {
	case Union:
		return v.Types
	case MultiLineUnion:
		return membersOf(v.AsUnion())
	default:
		return []Type{t}
	}
}
