package main

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/checks"
	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/declanalysis"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/envwire"
	"github.com/funvibe/funxy/internal/lexer"
	"github.com/funvibe/funxy/internal/parser"
	"github.com/funvibe/funxy/internal/pipeline"
	"github.com/funvibe/funxy/internal/semantic"
)

// workspaceChecks is the diagnostic check set publishDiagnostics runs
// over every open document (spec.md §4.10/§6's diagnostics surface).
var workspaceChecks = []checks.Check{
	checks.ParamTypeCheck,
	checks.UndefinedFieldCheck,
	checks.TypeNotMatchCheck,
}

// analyzeDocument parses content, builds a fresh db.Index for it and
// wires a semantic.Model against it (spec.md §4.10).
func (s *LanguageServer) analyzeDocument(content, uri string) (*semantic.Model, []*diagnostics.DiagnosticError) {
	path := s.uriToPath(uri)

	ctx := pipeline.NewPipelineContext(content)
	ctx.FilePath = path
	runner := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{})
	ctx = runner.Run(ctx)

	prog, _ := ctx.AstRoot.(*ast.Program)
	if prog == nil {
		prog = &ast.Program{File: path}
	}

	file := db.DeriveFileId(path)
	index := db.New()
	declanalysis.Analyze(index, file, prog)

	envs := envwire.Build(index, s.config.Strict)
	model := semantic.New(index, file, prog, content, nil, envs.Generic, envs.Compat, envs.Members)

	diags := append([]*diagnostics.DiagnosticError{}, ctx.Errors...)
	diags = append(diags, checks.Run(model, prog, workspaceChecks)...)
	return model, filterDisabled(diags, s.config)
}

// filterDisabled drops diagnostics whose code appears in
// diagnostics.disable (spec.md §6 `diagnostics` option group).
func filterDisabled(diags []*diagnostics.DiagnosticError, cfg *config.Config) []*diagnostics.DiagnosticError {
	if cfg == nil || len(cfg.Diagnostics.Disable) == 0 {
		return diags
	}
	out := diags[:0]
	for _, d := range diags {
		if !cfg.IsDisabled(string(d.Code)) {
			out = append(out, d)
		}
	}
	return out
}
