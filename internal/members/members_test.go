package members_test

import (
	"sort"
	"testing"

	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/typesystem"
)

func keysOf(infos []members.Info) []string {
	out := make([]string, len(infos))
	for i, inf := range infos {
		out[i] = inf.Key.String()
	}
	sort.Strings(out)
	return out
}

// spec.md §8 "Member closure under union": find_members(Union(A,B))
// returns the multiset-union of find_members(A) and find_members(B).
func TestFindMembersUnionClosure(t *testing.T) {
	a := typesystem.Object{Fields: map[typesystem.MemberKey]typesystem.Type{
		typesystem.NameKey("x"): typesystem.String,
	}}
	b := typesystem.Object{Fields: map[typesystem.MemberKey]typesystem.Type{
		typesystem.NameKey("y"): typesystem.Integer,
	}}
	union := typesystem.Union{Types: []typesystem.Type{a, b}}

	env := &members.Env{}
	got := keysOf(members.FindMembers(union, env))
	want := []string{"x", "y"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("FindMembers(Union(A,B)) = %v, want %v", got, want)
	}
}

// spec.md §4.9 "Tuple -> [i]: T_i for i=1..n."
func TestFindMembersTuple(t *testing.T) {
	tup := typesystem.Tuple{Elems: []typesystem.Type{typesystem.String, typesystem.Integer}}
	got := members.FindMembers(tup, &members.Env{})
	if len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}
	if got[0].Key != typesystem.IntKey(1) || got[1].Key != typesystem.IntKey(2) {
		t.Fatalf("expected keys [1] and [2], got %v, %v", got[0].Key, got[1].Key)
	}
}

// spec.md §4.9 "TableGeneric([K,V]) -> synthetic single 'index' member
// with key type K and value type V."
func TestFindMembersTableGeneric(t *testing.T) {
	tg := typesystem.TableGeneric{Entries: []typesystem.Type{typesystem.String, typesystem.Integer}}
	got := members.FindMembers(tg, &members.Env{})
	if len(got) != 1 {
		t.Fatalf("expected 1 synthetic member, got %d", len(got))
	}
	if got[0].Key != typesystem.NameKey("index") {
		t.Fatalf("expected key 'index', got %v", got[0].Key)
	}
	if !typesystem.Equal(got[0].Type, typesystem.Integer) {
		t.Fatalf("expected value type Integer, got %s", got[0].Type)
	}
}

// spec.md §4.9 "Intersection -> intersect members by key; equal types
// survive; different types yield no member at that key."
func TestFindMembersIntersection(t *testing.T) {
	a := typesystem.Object{Fields: map[typesystem.MemberKey]typesystem.Type{
		typesystem.NameKey("x"): typesystem.String,
		typesystem.NameKey("y"): typesystem.String,
	}}
	b := typesystem.Object{Fields: map[typesystem.MemberKey]typesystem.Type{
		typesystem.NameKey("x"): typesystem.String,
		typesystem.NameKey("y"): typesystem.Integer,
	}}
	inter := typesystem.Intersection{Types: []typesystem.Type{a, b}}
	got := keysOf(members.FindMembers(inter, &members.Env{}))
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected only 'x' to survive (equal types), got %v", got)
	}
}
