package typesystem

// Kind and Constraint exist only because internal/ast — the given
// CST layer (spec.md §1, kept unmodified) — declares a few fields
// typed against this package for the teacher's original generic/trait
// grammar (ast.Parameter.Kind, ast.TraitDeclaration.AnalyzedRequirements).
// This spec's language has no higher-kinded types or trait constraints,
// so the new CORE (internal/generic, internal/compat, ...) never
// constructs or reads these; they are retained solely so the given AST
// package's field declarations still resolve.
type Kind interface{ legacyKind() }

// KStar and KArrow are the only two legacy kind shapes the given parser
// still constructs (`*` and `k1 -> k2` kind annotations on a generic
// type parameter); nothing in the new CORE reads them back.
type KStar struct{}

func (KStar) legacyKind() {}

type KArrow struct{ Left, Right Kind }

func (KArrow) legacyKind() {}

var Star Kind = KStar{}

type Constraint struct {
	TypeVar string
	Trait   string
	Args    []Type
}
