package generic

import "github.com/funvibe/funxy/internal/typesystem"

// Match implements spec.md §4.4's pattern matcher: given a template
// shape and a concrete target, fills subst by structural descent. It
// never fails outright (a non-matching shape simply contributes no
// binding) because overload scoring (spec.md §4.6) treats "template
// matched liberally" as part of its own scoring, not as a hard error
// here.
func Match(template, target typesystem.Type, subst *Substitutor) {
	if template == nil || target == nil {
		return
	}
	switch tpl := template.(type) {
	case typesystem.TplRef:
		subst.Bind(tpl.Id, SingleValue(target))
		return
	case typesystem.FuncTplRef:
		subst.Bind(tpl.Id, SingleValue(target))
		return
	case typesystem.StrTplRef:
		if sc, ok := target.(typesystem.StringConst); ok {
			rest := sc.Value
			if len(rest) >= len(tpl.Prefix) {
				rest = rest[len(tpl.Prefix):]
			}
			if len(rest) >= len(tpl.Suffix) {
				rest = rest[:len(rest)-len(tpl.Suffix)]
			}
			subst.Bind(tpl.Id, SingleValue(typesystem.StringConst{Value: rest}))
		}
		return
	case typesystem.Variadic:
		matchVariadic(tpl, target, subst)
		return
	case typesystem.Array:
		if t, ok := target.(typesystem.Array); ok {
			Match(tpl.Elem, t.Elem, subst)
		}
		return
	case typesystem.Nullable:
		if t, ok := target.(typesystem.Nullable); ok {
			Match(tpl.Elem, t.Elem, subst)
		} else {
			Match(tpl.Elem, target, subst)
		}
		return
	case typesystem.Tuple:
		matchTuple(tpl.Elems, target, subst)
		return
	case typesystem.TableGeneric:
		if t, ok := target.(typesystem.TableGeneric); ok {
			n := len(tpl.Entries)
			if len(t.Entries) < n {
				n = len(t.Entries)
			}
			for i := 0; i < n; i++ {
				Match(tpl.Entries[i], t.Entries[i], subst)
			}
		}
		return
	case typesystem.Generic:
		if t, ok := target.(typesystem.Generic); ok && t.Base == tpl.Base {
			n := len(tpl.Params)
			if len(t.Params) < n {
				n = len(t.Params)
			}
			for i := 0; i < n; i++ {
				Match(tpl.Params[i], t.Params[i], subst)
			}
		}
		return
	case typesystem.Union:
		// match each template arm against the target; a union template
		// commonly appears as `T|nil` matching a narrowed argument.
		for _, arm := range tpl.Types {
			Match(arm, target, subst)
		}
		return
	case typesystem.DocFunction:
		if t, ok := target.(typesystem.DocFunction); ok {
			matchFunc(tpl.Fn, t.Fn, subst)
		}
		return
	default:
		return
	}
}

func matchTuple(elems []typesystem.Type, target typesystem.Type, subst *Substitutor) {
	var targetElems []typesystem.Type
	switch t := target.(type) {
	case typesystem.Tuple:
		targetElems = t.Elems
	case typesystem.Array:
		for range elems {
			targetElems = append(targetElems, t.Elem)
		}
	default:
		return
	}
	for i, e := range elems {
		if v, ok := e.(typesystem.Variadic); ok {
			rest := []typesystem.Type{}
			if i < len(targetElems) {
				rest = targetElems[i:]
			}
			matchVariadicMulti(v, rest, subst)
			return
		}
		if i < len(targetElems) {
			Match(e, targetElems[i], subst)
		}
	}
}

func matchVariadic(tpl typesystem.Variadic, target typesystem.Type, subst *Substitutor) {
	elems := multiReturnElems(target)
	matchVariadicMulti(tpl, elems, subst)
}

// matchVariadicMulti binds the template parameter carried by a
// `...TplRef` pattern to the remaining positional targets (spec.md
// §4.4 "used by signature inference").
func matchVariadicMulti(tpl typesystem.Variadic, rest []typesystem.Type, subst *Substitutor) {
	switch base := tpl.Inner.Base.(type) {
	case typesystem.TplRef:
		subst.Bind(base.Id, MultiValue(rest))
	case typesystem.FuncTplRef:
		subst.Bind(base.Id, MultiValue(rest))
	default:
		for _, r := range rest {
			Match(tpl.Inner.Base, r, subst)
		}
	}
}

func matchFunc(tpl, target typesystem.FunctionType, subst *Substitutor) {
	n := len(tpl.Params)
	if len(target.Params) < n {
		n = len(target.Params)
	}
	for i := 0; i < n; i++ {
		Match(tpl.Params[i].Type, target.Params[i].Type, subst)
	}
	if tpl.IsVariadic && tpl.VariadicType != nil {
		var rest []typesystem.Type
		for i := n; i < len(target.Params); i++ {
			rest = append(rest, target.Params[i].Type)
		}
		if ref, ok := tpl.VariadicType.(typesystem.TplRef); ok {
			subst.Bind(ref.Id, MultiValue(rest))
		}
	}
	Match(tpl.Return, target.Return, subst)
}
