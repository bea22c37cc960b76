// Package typesystem is the type universe: a tagged sum of primitive,
// composite, reference and template variants with structural sharing,
// as specified in spec.md §3.1.
//
// Every variant implements Type. Dispatch is a type switch, not a method
// per operation, so that instantiate/compat/members (which each fold
// over the whole lattice) share one dispatch shape — see DESIGN.md and
// spec.md §9 "Overloaded dispatch across variants".
package typesystem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/funxy/internal/ids"
)

// Type is the interface every variant implements. Composite payloads
// (Object, Union, Intersection, ...) are constructed once and shared;
// nothing mutates a Type in place — see spec.md §3.2 "Mutating a
// composite is forbidden; instead construct a new one."
type Type interface {
	String() string
	typeTag() string
}

// ---- Primitives (singletons) ----

type primKind uint8

const (
	primUnknown primKind = iota
	primAny
	primNil
	primTable
	primUserdata
	primFunction
	primThread
	primBoolean
	primString
	primInteger
	primNumber
	primIo
	primSelfInfer
	primGlobal
)

var primNames = [...]string{
	"unknown", "any", "nil", "table", "userdata", "function", "thread",
	"boolean", "string", "integer", "number", "io", "self", "global",
}

// Prim is a primitive singleton type.
type Prim struct{ kind primKind }

func (p Prim) String() string  { return primNames[p.kind] }
func (p Prim) typeTag() string { return "prim" }

var (
	Unknown    Type = Prim{primUnknown}
	Any        Type = Prim{primAny}
	Nil        Type = Prim{primNil}
	TableType  Type = Prim{primTable}
	Userdata   Type = Prim{primUserdata}
	Function   Type = Prim{primFunction}
	Thread     Type = Prim{primThread}
	Boolean    Type = Prim{primBoolean}
	String     Type = Prim{primString}
	Integer    Type = Prim{primInteger}
	Number     Type = Prim{primNumber}
	Io         Type = Prim{primIo}
	SelfInfer  Type = Prim{primSelfInfer}
	GlobalType Type = Prim{primGlobal}
)

// IsNil reports whether t is the Nil primitive.
func IsNil(t Type) bool { p, ok := t.(Prim); return ok && p.kind == primNil }

// ---- Literal constants (value-inferred) ----

type IntConst struct{ Value int64 }

func (c IntConst) String() string  { return fmt.Sprintf("%d", c.Value) }
func (c IntConst) typeTag() string { return "intconst" }

type FloatConst struct{ Value float64 }

func (c FloatConst) String() string  { return fmt.Sprintf("%g", c.Value) }
func (c FloatConst) typeTag() string { return "floatconst" }

type StringConst struct{ Value string }

func (c StringConst) String() string  { return fmt.Sprintf("%q", c.Value) }
func (c StringConst) typeTag() string { return "stringconst" }

type BoolConst struct{ Value bool }

func (c BoolConst) String() string  { return fmt.Sprintf("%t", c.Value) }
func (c BoolConst) typeTag() string { return "boolconst" }

// TableConst is the type of a table literal, identified by its source
// range; its members live in the db's MemberIndex under
// MemberOwner.Element(range).
type TableConst struct{ Range ids.SourceRange }

func (c TableConst) String() string  { return "table" }
func (c TableConst) typeTag() string { return "tableconst" }

// ---- Literal constants from doc annotations ----
// Kept distinct from the value-inferred *Const variants (spec.md §3.1):
// a doc-declared `---@type 1` and an inferred `local x = 1` both produce
// a literal-1 type, but only the latter participates the same way in
// strict.docIntegerConstMatchInt (spec.md §6).

type DocIntConst struct{ Value int64 }

func (c DocIntConst) String() string  { return fmt.Sprintf("%d", c.Value) }
func (c DocIntConst) typeTag() string { return "docintconst" }

type DocStringConst struct{ Value string }

func (c DocStringConst) String() string  { return fmt.Sprintf("%q", c.Value) }
func (c DocStringConst) typeTag() string { return "docstringconst" }

type DocBoolConst struct{ Value bool }

func (c DocBoolConst) String() string  { return fmt.Sprintf("%t", c.Value) }
func (c DocBoolConst) typeTag() string { return "docboolconst" }

// ---- References into db ----

// Ref is a nominal reference to a type declaration; every occurrence of
// a nominal type other than its own definition site uses Ref.
type Ref struct{ Id ids.TypeDeclId }

func (r Ref) String() string  { return string(r.Id) }
func (r Ref) typeTag() string { return "ref" }

// Def marks the definition site of a nominal type. Appears exactly once
// per declaration (spec.md §3.1 invariant).
type Def struct{ Id ids.TypeDeclId }

func (d Def) String() string  { return string(d.Id) }
func (d Def) typeTag() string { return "def" }

// Signature is a function defined in source (as opposed to a DocFunction
// declared purely in a doc comment).
type Signature struct{ Id ids.SignatureId }

func (s Signature) String() string  { return "fun" }
func (s Signature) typeTag() string { return "signature" }

// Module is the exported result of a `require`d module.
type Module struct{ Path string }

func (m Module) String() string  { return m.Path }
func (m Module) typeTag() string { return "module" }

// ---- Composites ----

type Array struct{ Elem Type }

func (a Array) String() string  { return a.Elem.String() + "[]" }
func (a Array) typeTag() string { return "array" }

// Nullable is idempotent: NewNullable(NewNullable(T)) == NewNullable(T)
// (spec.md §3.1 invariant), enforced at construction.
type Nullable struct{ Elem Type }

// NewNullable constructs a Nullable, collapsing nested Nullables and
// leaving Nil/Nullable(Nil) alone (Nil is already optional).
func NewNullable(t Type) Type {
	if n, ok := t.(Nullable); ok {
		return n
	}
	if IsNil(t) {
		return t
	}
	return Nullable{Elem: t}
}

func (n Nullable) String() string  { return n.Elem.String() + "?" }
func (n Nullable) typeTag() string { return "nullable" }

// IsOptional reports whether t never requires a non-nil value: Nil
// itself or a Nullable wrapper (spec.md §3.1 invariant).
func IsOptional(t Type) bool {
	if IsNil(t) {
		return true
	}
	_, ok := t.(Nullable)
	return ok
}

type KeyOf struct{ Target Type }

func (k KeyOf) String() string  { return "keyof(" + k.Target.String() + ")" }
func (k KeyOf) typeTag() string { return "keyof" }

type Tuple struct{ Elems []Type }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t Tuple) typeTag() string { return "tuple" }

// MemberKeyKind discriminates the MemberKey union (spec.md §3.2).
type MemberKeyKind uint8

const (
	KeyNone MemberKeyKind = iota
	KeyName
	KeyInteger
	KeyExprType
)

// MemberKey is the discriminant used to address a member.
type MemberKey struct {
	Kind     MemberKeyKind
	Name     string
	Int      int64
	ExprType Type
}

func NameKey(n string) MemberKey    { return MemberKey{Kind: KeyName, Name: n} }
func IntKey(i int64) MemberKey      { return MemberKey{Kind: KeyInteger, Int: i} }
func ExprKey(t Type) MemberKey      { return MemberKey{Kind: KeyExprType, ExprType: t} }

func (k MemberKey) String() string {
	switch k.Kind {
	case KeyName:
		return k.Name
	case KeyInteger:
		return fmt.Sprintf("[%d]", k.Int)
	case KeyExprType:
		return "[" + k.ExprType.String() + "]"
	default:
		return "<none>"
	}
}

// IndexAccessEntry is one (key-type, value-type) entry of an Object's
// index signature (e.g. `[string]: Int`).
type IndexAccessEntry struct {
	Key   Type
	Value Type
}

// Object is a structural record: a map of named/keyed fields plus zero
// or more index-access signatures.
type Object struct {
	Fields      map[MemberKey]Type
	IndexAccess []IndexAccessEntry
}

func (o Object) String() string {
	keys := make([]string, 0, len(o.Fields))
	for k := range o.Fields {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+len(o.IndexAccess))
	byStr := make(map[string]MemberKey, len(o.Fields))
	for k := range o.Fields {
		byStr[k.String()] = k
	}
	for _, ks := range keys {
		k := byStr[ks]
		parts = append(parts, fmt.Sprintf("%s: %s", ks, o.Fields[k].String()))
	}
	for _, e := range o.IndexAccess {
		parts = append(parts, fmt.Sprintf("[%s]: %s", e.Key.String(), e.Value.String()))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (o Object) typeTag() string { return "object" }

// Union is flattened, deduplicated and sorted at construction time
// (NormalizeUnion), so structural Equal can compare elementwise.
type Union struct{ Types []Type }

func (u Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}
func (u Union) typeTag() string { return "union" }

type Intersection struct{ Types []Type }

func (i Intersection) String() string {
	parts := make([]string, len(i.Types))
	for j, t := range i.Types {
		parts[j] = t.String()
	}
	return strings.Join(parts, " & ")
}
func (i Intersection) typeTag() string { return "intersection" }

// Extends represents `base extends ext` (a conditional/constraint type,
// evaluated lazily through AliasCall{Extends}).
type Extends struct {
	Base Type
	Ext  Type
}

func (e Extends) String() string  { return e.Base.String() + " extends " + e.Ext.String() }
func (e Extends) typeTag() string { return "extends" }

// Generic is a parameterized nominal type, e.g. `Array<String>`.
type Generic struct {
	Base   ids.TypeDeclId
	Params []Type
}

func (g Generic) String() string {
	parts := make([]string, len(g.Params))
	for i, p := range g.Params {
		parts[i] = p.String()
	}
	return string(g.Base) + "<" + strings.Join(parts, ", ") + ">"
}
func (g Generic) typeTag() string { return "generic" }

// TableGeneric is table<K, V>; conventionally exactly 2 entries.
type TableGeneric struct{ Entries []Type }

func (t TableGeneric) String() string {
	parts := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		parts[i] = e.String()
	}
	return "table<" + strings.Join(parts, ", ") + ">"
}
func (t TableGeneric) typeTag() string { return "tablegeneric" }

// DocFunction is a function type declared purely via doc comments
// (`---@type fun(a: string): number`), as opposed to Signature.
type DocFunction struct{ Fn FunctionType }

func (d DocFunction) String() string  { return d.Fn.String() }
func (d DocFunction) typeTag() string { return "docfunction" }

// Instance wraps a value-level table with a syntactic range, letting
// field assignments contribute members back to Base (spec.md glossary).
type Instance struct {
	Base  Type
	Range ids.SourceRange
}

func (i Instance) String() string  { return i.Base.String() }
func (i Instance) typeTag() string { return "instance" }

// ---- Templates ----

// TplRef is a class-scope template variable.
type TplRef struct {
	Id   ids.TplId
	Name string
}

func (t TplRef) String() string  { return t.Name }
func (t TplRef) typeTag() string { return "tplref" }

// FuncTplRef is a function-scope template variable; distinguished from
// TplRef so instantiation knows which substitutor scope binds it.
type FuncTplRef struct {
	Id   ids.TplId
	Name string
}

func (t FuncTplRef) String() string  { return t.Name }
func (t FuncTplRef) typeTag() string { return "functplref" }

// StrTplRef composes a literal-string template, e.g. `"get" .. T`.
type StrTplRef struct {
	Prefix string
	Suffix string
	Id     ids.TplId
	Name   string
}

func (t StrTplRef) String() string  { return t.Prefix + t.Name + t.Suffix }
func (t StrTplRef) typeTag() string { return "strtplref" }

// ContainsTemplate reports whether t has a reachable TplRef, FuncTplRef
// or StrTplRef node (spec.md §3.1 invariant `contain_tpl`).
func ContainsTemplate(t Type) bool {
	switch v := t.(type) {
	case TplRef, FuncTplRef, StrTplRef:
		return true
	case Array:
		return ContainsTemplate(v.Elem)
	case Nullable:
		return ContainsTemplate(v.Elem)
	case KeyOf:
		return ContainsTemplate(v.Target)
	case Tuple:
		return anyContainsTemplate(v.Elems)
	case Object:
		for _, ft := range v.Fields {
			if ContainsTemplate(ft) {
				return true
			}
		}
		for _, e := range v.IndexAccess {
			if ContainsTemplate(e.Key) || ContainsTemplate(e.Value) {
				return true
			}
		}
		return false
	case Union:
		return anyContainsTemplate(v.Types)
	case Intersection:
		return anyContainsTemplate(v.Types)
	case Extends:
		return ContainsTemplate(v.Base) || ContainsTemplate(v.Ext)
	case Generic:
		return anyContainsTemplate(v.Params)
	case TableGeneric:
		return anyContainsTemplate(v.Entries)
	case DocFunction:
		return functionContainsTemplate(v.Fn)
	case Instance:
		return ContainsTemplate(v.Base)
	case Variadic:
		return variadicTypeContainsTemplate(v.Inner)
	case MultiReturn:
		if v.Kind == MultiReturnBase {
			return ContainsTemplate(v.Base)
		}
		return anyContainsTemplate(v.Multi)
	case AliasCall:
		return anyContainsTemplate(v.Operands)
	case TypeGuard:
		return ContainsTemplate(v.Inner)
	case MultiLineUnion:
		for _, a := range v.Arms {
			if ContainsTemplate(a.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func anyContainsTemplate(ts []Type) bool {
	for _, t := range ts {
		if ContainsTemplate(t) {
			return true
		}
	}
	return false
}

func functionContainsTemplate(f FunctionType) bool {
	for _, p := range f.Params {
		if ContainsTemplate(p.Type) {
			return true
		}
	}
	if f.IsVariadic && f.VariadicType != nil && ContainsTemplate(f.VariadicType) {
		return true
	}
	return ContainsTemplate(f.Return)
}

func variadicTypeContainsTemplate(v VariadicType) bool {
	switch v.Kind {
	case VariadicBase:
		return ContainsTemplate(v.Base)
	default:
		return anyContainsTemplate(v.Multi)
	}
}

// ---- Variadics & multi-return ----

type VariadicKind uint8

const (
	VariadicBase VariadicKind = iota
	VariadicMulti
)

// VariadicType is the payload of Variadic: either "zero or more of a
// single base type" or "exactly this fixed list" (spec.md §3.1).
type VariadicType struct {
	Kind  VariadicKind
	Base  Type
	Multi []Type
}

type Variadic struct{ Inner VariadicType }

func (v Variadic) String() string {
	if v.Inner.Kind == VariadicBase {
		return "..." + v.Inner.Base.String()
	}
	parts := make([]string, len(v.Inner.Multi))
	for i, t := range v.Inner.Multi {
		parts[i] = t.String()
	}
	return "...(" + strings.Join(parts, ", ") + ")"
}
func (v Variadic) typeTag() string { return "variadic" }

type MultiReturnKind uint8

const (
	MultiReturnBase MultiReturnKind = iota
	MultiReturnMulti
)

// MultiReturn is the result shape of a call that can produce more than
// one value. Kept distinct from Variadic (see DESIGN.md Open Question
// #3): Variadic models packs/parameters, MultiReturn models call
// results; the one place they interconvert is in
// internal/generic/instantiate.go when a Variadic(TplRef) substitution
// is expanded.
type MultiReturn struct {
	Kind  MultiReturnKind
	Base  Type
	Multi []Type
}

func (m MultiReturn) String() string {
	if m.Kind == MultiReturnBase {
		return m.Base.String()
	}
	parts := make([]string, len(m.Multi))
	for i, t := range m.Multi {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
func (m MultiReturn) typeTag() string { return "multireturn" }

// First returns the first component of a (possibly multi) return, or
// Nil if there are none.
func (m MultiReturn) First() Type {
	if m.Kind == MultiReturnBase {
		return m.Base
	}
	if len(m.Multi) == 0 {
		return Nil
	}
	return m.Multi[0]
}

// ---- Other ----

type AliasCallKind uint8

const (
	AliasKeyOf AliasCallKind = iota
	AliasSelect
	AliasExtends
	AliasAdd
	AliasSub
	AliasRawGet
	AliasUnpack
)

// AliasCall evaluates lazily during instantiation (spec.md §4.3).
type AliasCall struct {
	Kind     AliasCallKind
	Operands []Type
}

func (a AliasCall) String() string {
	parts := make([]string, len(a.Operands))
	for i, o := range a.Operands {
		parts[i] = o.String()
	}
	return fmt.Sprintf("%d(%s)", a.Kind, strings.Join(parts, ", "))
}
func (a AliasCall) typeTag() string { return "aliascall" }

// TypeGuard is return-type sugar for predicate functions, e.g.
// `fun(x: any): x is string`.
type TypeGuard struct{ Inner Type }

func (t TypeGuard) String() string  { return "is " + t.Inner.String() }
func (t TypeGuard) typeTag() string { return "typeguard" }

// MultiLineUnionArm is one documented arm of a MultiLineUnion.
type MultiLineUnionArm struct {
	Type        Type
	Description string
}

// MultiLineUnion is a union type whose arms each carry an optional doc
// description (from a multi-line `---@type` block).
type MultiLineUnion struct{ Arms []MultiLineUnionArm }

func (m MultiLineUnion) String() string {
	parts := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		parts[i] = a.Type.String()
	}
	return strings.Join(parts, " | ")
}
func (m MultiLineUnion) typeTag() string { return "multilineunion" }

// AsUnion collapses a MultiLineUnion down to a plain Union for use by
// code paths (compat, members) that don't care about the descriptions.
func (m MultiLineUnion) AsUnion() Type {
	ts := make([]Type, len(m.Arms))
	for i, a := range m.Arms {
		ts[i] = a.Type
	}
	return NormalizeUnion(ts)
}

type Namespace struct{ Path string }

func (n Namespace) String() string  { return n.Path }
func (n Namespace) typeTag() string { return "namespace" }

// ---- Function type (payload of Signature / DocFunction) ----

type Param struct {
	Name     string
	Type     Type
	Optional bool
}

// FunctionType is the shape shared by Signature-resolved functions and
// doc-declared DocFunctions.
type FunctionType struct {
	Params        []Param
	Return        Type // may itself be a MultiReturn
	IsVariadic    bool
	VariadicType  Type // element type of the trailing variadic, if any
	IsColonDefine bool
	GenericParams []GenericGuardParam
}

// GenericGuardParam is a `---@generic` declaration on a signature.
type GenericGuardParam struct {
	Name       string
	Constraint Type // may be nil
}

func (f FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		s := p.Name
		if p.Optional {
			s += "?"
		}
		parts[i] = s + ": " + p.Type.String()
	}
	if f.IsVariadic {
		tail := "any"
		if f.VariadicType != nil {
			tail = f.VariadicType.String()
		}
		parts = append(parts, "..."+tail)
	}
	ret := "nil"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "fun(" + strings.Join(parts, ", ") + "): " + ret
}
