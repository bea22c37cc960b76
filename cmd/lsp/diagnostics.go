package main

import (
	"path/filepath"

	"github.com/funvibe/funxy/internal/diagnostics"
)

func (s *LanguageServer) publishDiagnostics(uri string, errs []*diagnostics.DiagnosticError) error {
	// Convert diagnostics to LSP format
	lspDiagnostics := s.convertDiagnostics(errs, s.uriToPath(uri))

	// Send publishDiagnostics notification
	notification := NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: lspDiagnostics,
		},
	}

	return s.sendNotification(notification)
}

// severityFor resolves a diagnostic code's LSP severity from
// `diagnostics.severity` (spec.md §6), falling back to Error when the
// config doesn't name the code or names an unrecognized level.
func (s *LanguageServer) severityFor(code diagnostics.ErrorCode) DiagnosticSeverity {
	if s.config == nil {
		return SeverityError
	}
	switch s.config.Diagnostics.Severity[string(code)] {
	case "warning":
		return SeverityWarning
	case "info":
		return SeverityInfo
	case "hint":
		return SeverityHint
	default:
		return SeverityError
	}
}

func (s *LanguageServer) convertDiagnostics(errors []*diagnostics.DiagnosticError, filePath string) []Diagnostic {
	result := make([]Diagnostic, 0)
	targetPath := filepath.Clean(filePath)

	for _, err := range errors {
		if err.File != "" && targetPath != "" {
			if filepath.Clean(err.File) != targetPath {
				continue
			}
		}

		diag := Diagnostic{
			Range: Range{
				Start: Position{
					Line:      err.Token.Line - 1, // LSP uses 0-based indexing
					Character: err.Token.Column - 1,
				},
				End: Position{
					Line:      err.Token.Line - 1,
					Character: err.Token.Column + len(err.Token.Lexeme) - 1,
				},
			},
			Severity: s.severityFor(err.Code),
			Code:     string(err.Code),
			Message:  err.Error(),
			Source:   "funxy",
		}
		result = append(result, diag)
	}

	return result
}
