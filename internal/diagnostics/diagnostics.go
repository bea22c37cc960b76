// Package diagnostics is the shared error shape produced by
// internal/lexer, internal/parser and consumed by cmd/lsp and
// pkg/diagcli. Lexer/parser are the assumed-given layer (spec.md §1);
// this package is their error vocabulary, grounded on the sibling
// mcgru-funxy tree's internal/diagnostics package (same phase/code/
// template shape), extended with the P007 index-assignment code this
// workspace's parser tests expect.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/funxy/internal/token"
)

// Phase is the pipeline stage an error was raised from.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
	PhaseRuntime  Phase = "runtime"
)

type ErrorCode string

const (
	// Lexer errors.
	ErrL001 ErrorCode = "L001" // invalid character

	// Parser errors.
	ErrP001 ErrorCode = "P001" // invalid assignment target
	ErrP002 ErrorCode = "P002" // invalid compound-assignment target
	ErrP003 ErrorCode = "P003" // could not parse as integer (unused: oversized literals are lexed ILLEGAL -> P004)
	ErrP004 ErrorCode = "P004" // no prefix parse function for token
	ErrP005 ErrorCode = "P005" // expected token missing
	ErrP006 ErrorCode = "P006" // statement-placement / naming-convention error
	ErrP007 ErrorCode = "P007" // index assignment is not supported

	// Analyzer errors.
	ErrA001 ErrorCode = "A001" // undeclared variable
	ErrA002 ErrorCode = "A002" // undeclared type
	ErrA003 ErrorCode = "A003" // type error
	ErrA004 ErrorCode = "A004" // redefinition error
	ErrA005 ErrorCode = "A005" // type mismatch in assignment
	ErrA006 ErrorCode = "A006" // undefined symbol
	ErrA007 ErrorCode = "A007" // match not exhaustive
	ErrA008 ErrorCode = "A008" // naming convention error

	// Runtime errors.
	ErrR001 ErrorCode = "R001"
)

var errorTemplates = map[ErrorCode]string{
	ErrL001: "invalid character: '%s'",
	ErrP001: "unexpected token: expected '%s', but got '%s'",
	ErrP002: "expected an identifier or member expression on the left side of a compound assignment",
	ErrP003: "could not parse '%s' as an integer",
	ErrP004: "cannot parse expression starting with '%s'",
	ErrP005: "expected next token to be '%s', but got '%s' instead",
	ErrP006: "%s",
	ErrP007: "index assignment is not supported",
	ErrA001: "undeclared variable: '%s'",
	ErrA002: "undeclared type: '%s'",
	ErrA003: "type error: %s",
	ErrA004: "redefinition of symbol: '%s'",
	ErrA005: "type mismatch in assignment: expected %s, got %s",
	ErrA006: "undefined symbol: '%s'",
	ErrA007: "match expression is not exhaustive. Missing cases: %s",
	ErrA008: "naming convention: %s",
	ErrR001: "runtime error: %s",
}

// DiagnosticError is one reported problem, carrying enough to render an
// LSP diagnostic (cmd/lsp/diagnostics.go) or a CLI line (pkg/diagcli).
type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Args  []interface{}
	Token token.Token
	File  string
	Hint  string
}

func (e *DiagnosticError) Error() string {
	message := formatMessage(e.Code, e.Args)

	prefix := ""
	if e.File != "" {
		prefix = fmt.Sprintf("%s: ", e.File)
	}

	phaseStr := ""
	if e.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", e.Phase)
	}

	if e.Token.Line > 0 {
		return fmt.Sprintf("%s%serror at %d:%d [%s]: %s", prefix, phaseStr, e.Token.Line, e.Token.Column, e.Code, message)
	}
	return fmt.Sprintf("%s%serror [%s]: %s", prefix, phaseStr, e.Code, message)
}

// formatMessage applies the code's template to args, falling back to a
// plain join when a call site's argument count doesn't match the
// template's verb count (call sites for the same code aren't always
// uniform about what they pass).
func formatMessage(code ErrorCode, args []interface{}) string {
	template, ok := errorTemplates[code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", code)
	}
	if strings.Count(template, "%s") == len(args) {
		return fmt.Sprintf(template, args...)
	}
	if len(args) == 0 {
		return template
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, ": ")
}

// NewError creates an error with just code and token.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Args: args}
}

// NewPhaseError creates an error tagged with the phase that raised it.
func NewPhaseError(phase Phase, code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: phase, Token: tok, Args: args}
}

// NewAnalyzerError creates an analyzer-phase error.
func NewAnalyzerError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return NewPhaseError(PhaseAnalyzer, code, tok, args...)
}

// InternalError reports a condition the analyzer believes cannot happen.
func InternalError(tok token.Token, message string) *DiagnosticError {
	return NewAnalyzerError(ErrA003, tok, "internal error: "+message)
}

// WrapError attaches phase/location info to a generic error, passing a
// *DiagnosticError through unchanged aside from filling in gaps.
func WrapError(phase Phase, tok token.Token, err error) *DiagnosticError {
	if de, ok := err.(*DiagnosticError); ok {
		if de.Phase == "" {
			de.Phase = phase
		}
		if de.Token.Line == 0 && tok.Line > 0 {
			de.Token = tok
		}
		return de
	}
	return NewPhaseError(phase, ErrA003, tok, err.Error())
}
