package generic_test

import (
	"testing"
	"time"

	"github.com/funvibe/funxy/internal/generic"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// spec.md §8 "For any t with contain_tpl(t) = false, instantiate(t,
// any_subst) = t."
func TestInstantiateNoTemplateIsIdentity(t *testing.T) {
	cases := []typesystem.Type{
		typesystem.String,
		typesystem.IntConst{Value: 3},
		typesystem.Array{Elem: typesystem.Integer},
		typesystem.Tuple{Elems: []typesystem.Type{typesystem.String, typesystem.Boolean}},
		typesystem.NormalizeUnion([]typesystem.Type{typesystem.String, typesystem.Nil}),
	}
	subst := generic.FromTypeArray([]ids.TplId{{Name: "T"}}, []typesystem.Type{typesystem.Number})
	for _, c := range cases {
		got := generic.Instantiate(c, subst, nil)
		if !typesystem.Equal(got, c) {
			t.Errorf("Instantiate(%s) = %s, want identity", c, got)
		}
	}
}

func TestInstantiateReplacesTplRef(t *testing.T) {
	tid := ids.TplId{Name: "T"}
	tpl := typesystem.TplRef{Id: tid, Name: "T"}
	subst := generic.FromTypeArray([]ids.TplId{tid}, []typesystem.Type{typesystem.String})

	got := generic.Instantiate(typesystem.Array{Elem: tpl}, subst, nil)
	want := typesystem.Array{Elem: typesystem.String}
	if !typesystem.Equal(got, want) {
		t.Fatalf("Instantiate(T[]) = %s, want %s", got, want)
	}
}

// spec.md §8 "for every alias A = F<A>, instantiation of A terminates
// and yields Generic{base: A, params: [A,...]} rather than looping."
//
// Models a recursive alias `alias A<T> = { next: A<T> }` by wiring an
// Env whose AliasOrigin for "A" returns a Generic{Base: A, Params:
// [TplRef(T)]} body — expanding A recurses back into instantiateGeneric
// for the same decl id, and CheckRecursion must short-circuit the
// second encounter.
func TestInstantiateRecursiveAliasTerminates(t *testing.T) {
	declA := ids.TypeDeclId("A")
	tplT := ids.TplId{Owner: declA, Name: "T"}

	origin := typesystem.Generic{
		Base:   declA,
		Params: []typesystem.Type{typesystem.TplRef{Id: tplT, Name: "T"}},
	}
	env := &generic.Env{
		AliasOrigin: func(id ids.TypeDeclId) (typesystem.Type, []ids.TplId, bool) {
			if id == declA {
				return origin, []ids.TplId{tplT}, true
			}
			return nil, nil, false
		},
	}

	start := typesystem.Generic{Base: declA, Params: []typesystem.Type{typesystem.String}}
	subst := generic.FromTypeArray([]ids.TplId{tplT}, []typesystem.Type{typesystem.String})

	done := make(chan typesystem.Type, 1)
	go func() { done <- generic.Instantiate(start, subst, env) }()

	var got typesystem.Type
	select {
	case got = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Instantiate(recursive alias) did not terminate")
	}

	g, ok := got.(typesystem.Generic)
	if !ok {
		t.Fatalf("expected Generic, got %T (%s)", got, got)
	}
	if g.Base != declA {
		t.Fatalf("expected base %s, got %s", declA, g.Base)
	}
}

// spec.md §4.4 Match: a function-scope TplRef binds to the concrete
// target type by structural descent through Array.
func TestMatchBindsFuncTplRefThroughArray(t *testing.T) {
	tid := ids.TplId{Name: "U"}
	tpl := typesystem.Array{Elem: typesystem.FuncTplRef{Id: tid, Name: "U"}}
	target := typesystem.Array{Elem: typesystem.String}

	subst := generic.Empty()
	generic.Match(tpl, target, subst)

	v, ok := subst.Lookup(tid)
	if !ok {
		t.Fatal("expected U to be bound")
	}
	bound, ok := v.First()
	if !ok || !typesystem.Equal(bound, typesystem.String) {
		t.Fatalf("expected U bound to String, got %v", bound)
	}
}
