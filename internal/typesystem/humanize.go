package typesystem

// Humanize renders t the way diagnostics and hovers quote a type
// (spec.md §7 "Diagnostic messages quote rendered source-level type
// names, never internal identifiers."). Type.String() already produces
// that source-level form for every variant; Humanize is just the named
// entry point internal/doctype's parser is built to round-trip against
// (spec.md §8 "humanize(type) ∘ parse_doc_type is a left identity").
func Humanize(t Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
