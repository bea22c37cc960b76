package diagcli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

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

// fileDiagnostics pairs one source file with the diagnostics raised
// against it, the unit check.go and terminal.go pass around.
type fileDiagnostics struct {
	Path  string
	Diags []*diagnostics.DiagnosticError
}

// runCheck implements `diagcli check <path>` (spec.md §6). path may
// name a single source file or a directory, walked recursively using
// the loaded config's recognized extensions and ignore globs.
func runCheck(args []string, stdout, stderr io.Writer) int {
	path, noColor, err := parseCheckArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "diagcli check: %v\n%s", err, usage)
		return ExitConfigOrIO
	}

	root := path
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	cfg, err := config.LoadChain(root)
	if err != nil {
		fmt.Fprintf(stderr, "diagcli check: %v\n", err)
		return ExitConfigOrIO
	}

	files, err := collectSourceFiles(path, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "diagcli check: %v\n", err)
		return ExitConfigOrIO
	}
	if len(files) == 0 {
		fmt.Fprintf(stderr, "diagcli check: no source files found under %s\n", path)
		return ExitConfigOrIO
	}

	term := newTerminal(stdout, !noColor)
	var results []fileDiagnostics
	total := 0
	for _, f := range files {
		diags, err := analyzeFile(f, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "diagcli check: %s: %v\n", f, err)
			return ExitConfigOrIO
		}
		total += len(diags)
		results = append(results, fileDiagnostics{Path: f, Diags: diags})
	}

	term.displayAll(results, cfg)

	if total > 0 {
		return ExitDiagnostics
	}
	return ExitOK
}

func parseCheckArgs(args []string) (path string, noColor bool, err error) {
	for _, a := range args {
		switch {
		case a == "--no-color":
			noColor = true
		case path == "":
			path = a
		default:
			return "", false, fmt.Errorf("unexpected argument %q", a)
		}
	}
	if path == "" {
		return "", false, fmt.Errorf("missing <path>")
	}
	return path, noColor, nil
}

// collectSourceFiles expands path into the concrete files to analyze,
// honoring cfg's recognized extensions and ignore globs (spec.md §6
// `workspace.ignoreGlobs`/`runtime.extensions`).
func collectSourceFiles(path string, cfg *config.Config) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var out []string
	exts := cfg.SourceExtensions()
	err = filepath.Walk(path, func(p string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if fi.IsDir() {
			return nil
		}
		if cfg.IgnoresPath(p) {
			return nil
		}
		for _, ext := range exts {
			if filepath.Ext(p) == ext {
				out = append(out, p)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// analyzeFile runs the lex/parse/index/infer/check pipeline against a
// single file, the same shape as cmd/lsp/analysis.go's
// analyzeDocument, standalone (pkg/diagcli cannot import package main).
func analyzeFile(path string, cfg *config.Config) ([]*diagnostics.DiagnosticError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := pipeline.NewPipelineContext(string(source))
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

	envs := envwire.Build(index, cfg.Strict)
	model := semantic.New(index, file, prog, string(source), nil, envs.Generic, envs.Compat, envs.Members)

	diags := append([]*diagnostics.DiagnosticError{}, ctx.Errors...)
	diags = append(diags, checks.Run(model, prog, checks.All)...)
	return filterDisabled(diags, cfg), nil
}

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
