package compat_test

import (
	"testing"

	"github.com/funvibe/funxy/internal/compat"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// spec.md §8 "Empty tuple ≤ empty tuple, and is a subtype of every Array(T)."
func TestEmptyTupleBoundary(t *testing.T) {
	empty := typesystem.Tuple{}
	if r := compat.Check(empty, empty, nil); r.Kind != compat.Ok {
		t.Fatalf("empty tuple vs empty tuple: got %v", r.Kind)
	}
	if r := compat.Check(typesystem.Array{Elem: typesystem.String}, empty, nil); r.Kind != compat.Ok {
		t.Fatalf("empty tuple as Array(String): got %v", r.Kind)
	}
	if r := compat.Check(typesystem.Array{Elem: typesystem.Integer}, empty, nil); r.Kind != compat.Ok {
		t.Fatalf("empty tuple as Array(Integer): got %v", r.Kind)
	}
}

// spec.md §8 scenario 5: enum (key) compatibility.
func TestEnumKeyedCompatibility(t *testing.T) {
	declE := ids.TypeDeclId("E")
	env := &compat.Env{
		IsEnum: func(id ids.TypeDeclId) (typesystem.Type, []compat.EnumMember, bool, bool) {
			if id != declE {
				return nil, nil, false, false
			}
			return typesystem.Integer, []compat.EnumMember{
				{Name: "A", Value: typesystem.IntConst{Value: 1}},
				{Name: "B", Value: typesystem.IntConst{Value: 2}},
			}, true, true
		},
	}
	e := typesystem.Ref{Id: declE}

	if r := compat.Check(e, typesystem.StringConst{Value: "A"}, env); r.Kind != compat.Ok {
		t.Fatalf(`"A" should be compatible with E (key), got %v`, r.Kind)
	}
	if r := compat.Check(e, typesystem.StringConst{Value: "C"}, env); r.Kind == compat.Ok {
		t.Fatalf(`"C" should not be compatible with E (key)`)
	}
}

// spec.md §4.8 "Union source: every member must accept compact. Union
// compact: some source arm must accept each compact arm." and §9's
// fixed infer_union_union_type_compact bug: a Union compact is accepted
// by a Union source when each compact arm is accepted by some source
// arm, and rejected when any compact arm is not covered.
func TestUnionUnionBothDirections(t *testing.T) {
	source := typesystem.Union{Types: []typesystem.Type{typesystem.String, typesystem.Integer}}
	compact := typesystem.Union{Types: []typesystem.Type{typesystem.String, typesystem.Integer}}
	if r := compat.Check(source, compact, nil); r.Kind != compat.Ok {
		t.Fatalf("identical unions should be compatible, got %v", r.Kind)
	}

	wider := typesystem.Union{Types: []typesystem.Type{typesystem.String, typesystem.Integer, typesystem.Boolean}}
	if r := compat.Check(source, wider, nil); r.Kind == compat.Ok {
		t.Fatalf("string|integer should not accept string|integer|boolean")
	}
}

// spec.md §4.8 "numbers accept int/float constants".
func TestPrimitiveAcceptsLiteralConstants(t *testing.T) {
	if r := compat.Check(typesystem.Number, typesystem.IntConst{Value: 5}, nil); r.Kind != compat.Ok {
		t.Fatalf("Number should accept IntConst, got %v", r.Kind)
	}
	if r := compat.Check(typesystem.Number, typesystem.FloatConst{Value: 5.5}, nil); r.Kind != compat.Ok {
		t.Fatalf("Number should accept FloatConst, got %v", r.Kind)
	}
	if r := compat.Check(typesystem.String, typesystem.StringConst{Value: "x"}, nil); r.Kind != compat.Ok {
		t.Fatalf("String should accept StringConst, got %v", r.Kind)
	}
}

// spec.md §4.8 "Nullable(b) vs compact: accepts Nil, or b accepts compact."
func TestNullableAcceptsNilOrElem(t *testing.T) {
	n := typesystem.NewNullable(typesystem.String)
	if r := compat.Check(n, typesystem.Nil, nil); r.Kind != compat.Ok {
		t.Fatalf("Nullable(String) should accept Nil, got %v", r.Kind)
	}
	if r := compat.Check(n, typesystem.StringConst{Value: "x"}, nil); r.Kind != compat.Ok {
		t.Fatalf("Nullable(String) should accept a string literal, got %v", r.Kind)
	}
	if r := compat.Check(n, typesystem.Integer, nil); r.Kind == compat.Ok {
		t.Fatalf("Nullable(String) should not accept Integer")
	}
}

// spec.md §4.8 Generic vs Generic: base decl-ids must match, then
// parameters pairwise.
func TestGenericVsGenericBaseMustMatch(t *testing.T) {
	box := ids.TypeDeclId("Box")
	other := ids.TypeDeclId("Other")
	a := typesystem.Generic{Base: box, Params: []typesystem.Type{typesystem.String}}
	b := typesystem.Generic{Base: box, Params: []typesystem.Type{typesystem.String}}
	if r := compat.Check(a, b, nil); r.Kind != compat.Ok {
		t.Fatalf("Box<string> vs Box<string> should be compatible, got %v", r.Kind)
	}
	c := typesystem.Generic{Base: other, Params: []typesystem.Type{typesystem.String}}
	if r := compat.Check(a, c, nil); r.Kind == compat.Ok {
		t.Fatalf("Box<string> vs Other<string> should not be compatible")
	}
	d := typesystem.Generic{Base: box, Params: []typesystem.Type{typesystem.Integer}}
	if r := compat.Check(a, d, nil); r.Kind == compat.Ok {
		t.Fatalf("Box<string> vs Box<integer> should not be compatible")
	}
}

// spec.md §6 / §8 Boundaries: "Integer compatibility with DocIntConst(k)
// obeys strict.docIntegerConstMatchInt." With the flag off, Integer must
// reject a DocIntConst compact type; with it on (or no Env at all, the
// implicit default), Integer keeps accepting it.
func TestIntegerVsDocIntConstObeysStrictFlag(t *testing.T) {
	doc := typesystem.DocIntConst{Value: 7}

	lenient := &compat.Env{StrictDocIntMatchInt: false}
	if r := compat.Check(typesystem.Integer, doc, lenient); r.Kind == compat.Ok {
		t.Fatalf("Integer should reject DocIntConst when StrictDocIntMatchInt is false, got %v", r.Kind)
	}

	strict := &compat.Env{StrictDocIntMatchInt: true}
	if r := compat.Check(typesystem.Integer, doc, strict); r.Kind != compat.Ok {
		t.Fatalf("Integer should accept DocIntConst when StrictDocIntMatchInt is true, got %v", r.Kind)
	}

	if r := compat.Check(typesystem.Integer, doc, nil); r.Kind != compat.Ok {
		t.Fatalf("Integer should accept DocIntConst when no Env is given, got %v", r.Kind)
	}
}

// spec.md §4.8 "Any | Unknown | SelfInfer -> always ok."
func TestAnyAndUnknownAlwaysOk(t *testing.T) {
	if r := compat.Check(typesystem.Any, typesystem.Integer, nil); r.Kind != compat.Ok {
		t.Fatalf("Any should accept anything, got %v", r.Kind)
	}
	if r := compat.Check(typesystem.Unknown, typesystem.TableType, nil); r.Kind != compat.Ok {
		t.Fatalf("Unknown should accept anything, got %v", r.Kind)
	}
}
