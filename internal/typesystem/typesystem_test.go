package typesystem_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// spec.md §8 "Hash-eq agreement": a == b => hash(a) == hash(b), for a
// representative sample across the variant groups.
func TestHashEqAgreement(t *testing.T) {
	pairs := [][2]typesystem.Type{
		{typesystem.String, typesystem.String},
		{typesystem.IntConst{Value: 7}, typesystem.IntConst{Value: 7}},
		{typesystem.Array{Elem: typesystem.String}, typesystem.Array{Elem: typesystem.String}},
		{typesystem.NewNullable(typesystem.String), typesystem.NewNullable(typesystem.String)},
		{
			typesystem.Union{Types: []typesystem.Type{typesystem.String, typesystem.Integer}},
			typesystem.Union{Types: []typesystem.Type{typesystem.String, typesystem.Integer}},
		},
		{typesystem.Ref{Id: ids.TypeDeclId("Foo")}, typesystem.Ref{Id: ids.TypeDeclId("Foo")}},
	}
	for i, p := range pairs {
		if !typesystem.Equal(p[0], p[1]) {
			t.Fatalf("pair %d: expected Equal", i)
		}
		if typesystem.Hash(p[0]) != typesystem.Hash(p[1]) {
			t.Fatalf("pair %d: Equal but Hash differs (%s)", i, p[0].String())
		}
	}
}

func TestHashEqDistinguishesUnequalTypes(t *testing.T) {
	a := typesystem.IntConst{Value: 1}
	b := typesystem.IntConst{Value: 2}
	if typesystem.Equal(a, b) {
		t.Fatalf("IntConst(1) should not equal IntConst(2)")
	}
}

// spec.md §3.1 "Nullable(T) is idempotent: Nullable(Nullable(T)) == Nullable(T)".
func TestNullableIdempotent(t *testing.T) {
	once := typesystem.NewNullable(typesystem.String)
	twice := typesystem.NewNullable(once)
	if !typesystem.Equal(once, twice) {
		t.Fatalf("Nullable(Nullable(T)) != Nullable(T): got %s vs %s", twice, once)
	}
	if _, ok := twice.(typesystem.Nullable); !ok {
		t.Fatalf("expected Nullable, got %T", twice)
	}
	if inner, ok := twice.(typesystem.Nullable); ok {
		if _, doubled := inner.Elem.(typesystem.Nullable); doubled {
			t.Fatalf("Nullable should not nest: %s", twice)
		}
	}
}

// spec.md §3.1 "Nil is optional; Nullable(T) is optional; nothing else is optional."
func TestIsOptional(t *testing.T) {
	if !typesystem.IsOptional(typesystem.Nil) {
		t.Fatalf("Nil must be optional")
	}
	if !typesystem.IsOptional(typesystem.NewNullable(typesystem.String)) {
		t.Fatalf("Nullable(String) must be optional")
	}
	if typesystem.IsOptional(typesystem.String) {
		t.Fatalf("String must not be optional")
	}
	if typesystem.IsOptional(typesystem.Integer) {
		t.Fatalf("Integer must not be optional")
	}
}

// spec.md §3.1 "contain_tpl(T) recursively: true iff any reachable node
// is TplRef, FuncTplRef, or StrTplRef."
func TestContainsTemplate(t *testing.T) {
	tpl := typesystem.TplRef{Id: ids.TplId{Name: "T"}, Name: "T"}
	cases := []struct {
		name string
		t    typesystem.Type
		want bool
	}{
		{"plain string", typesystem.String, false},
		{"bare tpl", tpl, true},
		{"array of tpl", typesystem.Array{Elem: tpl}, true},
		{"tuple without tpl", typesystem.Tuple{Elems: []typesystem.Type{typesystem.String, typesystem.Integer}}, false},
		{"union with tpl", typesystem.Union{Types: []typesystem.Type{typesystem.String, tpl}}, true},
		{"nullable tpl", typesystem.NewNullable(tpl), true},
		{"func tpl ref", typesystem.FuncTplRef{Id: ids.TplId{Name: "U"}, Name: "U"}, true},
	}
	for _, c := range cases {
		if got := typesystem.ContainsTemplate(c.t); got != c.want {
			t.Errorf("%s: ContainsTemplate = %v, want %v", c.name, got, c.want)
		}
	}
}

// spec.md §3.1 "Hashing must agree with equality", applied to
// MultiLineUnion: it must compare (and hash) equal to the plain Union
// of its arms, in both directions, since the doc descriptions don't
// change what type it denotes.
func TestMultiLineUnionEqualsPlainUnionBothDirections(t *testing.T) {
	mlu := typesystem.MultiLineUnion{Arms: []typesystem.MultiLineUnionArm{
		{Type: typesystem.Integer, Description: "an int"},
		{Type: typesystem.String, Description: "a string"},
	}}
	union := typesystem.NormalizeUnion([]typesystem.Type{typesystem.String, typesystem.Integer})

	if !typesystem.Equal(mlu, union) {
		t.Fatalf("Equal(MultiLineUnion, Union) should be true")
	}
	if !typesystem.Equal(union, mlu) {
		t.Fatalf("Equal(Union, MultiLineUnion) should be true (symmetry)")
	}
	if typesystem.Hash(mlu) != typesystem.Hash(union) {
		t.Fatalf("Hash(MultiLineUnion) must agree with Hash(Union) for the same arms")
	}

	other := typesystem.MultiLineUnion{Arms: []typesystem.MultiLineUnionArm{
		{Type: typesystem.Integer},
		{Type: typesystem.String},
	}}
	if !typesystem.Equal(mlu, other) {
		t.Fatalf("two MultiLineUnions with the same arms (different descriptions) should be Equal")
	}
	if typesystem.Hash(mlu) != typesystem.Hash(other) {
		t.Fatalf("two MultiLineUnions with the same arms should Hash equal")
	}
}

// spec.md §3.1 "Def appears only at the definition of a nominal; all
// other occurrences use Ref." Def and Ref to the same id are distinct
// values (the db distinguishes them by construction site), but both
// carry the same TypeDeclId for lookup purposes.
func TestRefDefDistinctTags(t *testing.T) {
	id := ids.TypeDeclId("Point")
	ref := typesystem.Ref{Id: id}
	def := typesystem.Def{Id: id}
	if typesystem.Equal(ref, def) {
		t.Fatalf("Ref and Def of the same id must not compare Equal (different variants)")
	}
}
