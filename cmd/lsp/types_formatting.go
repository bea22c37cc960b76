package main

import "github.com/funvibe/funxy/internal/typesystem"

// PrettifyType renders t for an LSP hover response. Unlike the teacher's
// HM lattice, this Type already normalizes unions/aliases/literal
// constants at construction time, so there is no variable-renaming pass
// left to do here.
func PrettifyType(t typesystem.Type) string {
	if t == nil {
		return "unknown"
	}
	return typesystem.Humanize(t)
}
