package config

// Version is the analyzer's version, reported by the CLI and the LSP
// initialize response.
var Version = "0.6.5"

const SourceFileExt = ".lang"

// SourceFileExtensions are the file extensions treated as source by
// default; runtime.extensions (spec.md §6) appends to this list per
// workspace.
var SourceFileExtensions = []string{".lang", ".funxy", ".fx"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsLSPMode indicates if the process is running as the language server
// rather than the offline diagnostics CLI; set in cmd/lsp/main.go.
var IsLSPMode = false
