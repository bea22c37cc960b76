package doctype

import (
	"testing"

	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/typesystem"
)

// roundTrip asserts humanize(t) parses back to an equal type (spec.md
// §8 "humanize(type) ∘ parse_doc_type is a left identity").
func roundTrip(t *testing.T, typ typesystem.Type) {
	t.Helper()
	rendered := typesystem.Humanize(typ)
	parsed, err := Parse(rendered)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", rendered, err)
	}
	if !typesystem.Equal(typ, parsed) {
		t.Fatalf("round trip mismatch for %q: got %#v, want %#v", rendered, parsed, typ)
	}
}

func TestRoundTripPrimitives(t *testing.T) {
	for _, typ := range []typesystem.Type{
		typesystem.Any, typesystem.Nil, typesystem.String, typesystem.Integer,
		typesystem.Number, typesystem.Boolean, typesystem.TableType,
	} {
		roundTrip(t, typ)
	}
}

func TestRoundTripNominalRef(t *testing.T) {
	roundTrip(t, typesystem.Ref{Id: ids.TypeDeclId("MyClass")})
}

func TestRoundTripArray(t *testing.T) {
	roundTrip(t, typesystem.Array{Elem: typesystem.String})
	roundTrip(t, typesystem.Array{Elem: typesystem.Array{Elem: typesystem.Integer}})
}

func TestRoundTripNullable(t *testing.T) {
	roundTrip(t, typesystem.NewNullable(typesystem.String))
}

func TestRoundTripUnion(t *testing.T) {
	roundTrip(t, typesystem.NormalizeUnion([]typesystem.Type{typesystem.String, typesystem.Integer}))
}

func TestRoundTripTuple(t *testing.T) {
	roundTrip(t, typesystem.Tuple{Elems: []typesystem.Type{typesystem.String, typesystem.Integer, typesystem.Boolean}})
}

func TestRoundTripGeneric(t *testing.T) {
	roundTrip(t, typesystem.Generic{Base: ids.TypeDeclId("Array"), Params: []typesystem.Type{typesystem.String}})
}

func TestRoundTripTableGeneric(t *testing.T) {
	roundTrip(t, typesystem.TableGeneric{Entries: []typesystem.Type{typesystem.String, typesystem.Integer}})
}

func TestRoundTripFunctionType(t *testing.T) {
	roundTrip(t, typesystem.DocFunction{Fn: typesystem.FunctionType{
		Params: []typesystem.Param{
			{Name: "a", Type: typesystem.String},
			{Name: "b", Type: typesystem.Integer, Optional: true},
		},
		Return: typesystem.Boolean,
	}})
}

func TestRoundTripVariadicFunctionType(t *testing.T) {
	roundTrip(t, typesystem.DocFunction{Fn: typesystem.FunctionType{
		IsVariadic:   true,
		VariadicType: typesystem.Any,
		Return:       typesystem.Nil,
	}})
}

func TestRoundTripEmptyTuple(t *testing.T) {
	roundTrip(t, typesystem.Tuple{})
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}
