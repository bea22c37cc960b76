// Package pipeline sequences the per-file processing phases (lexer ->
// parser -> [semantic]) over a shared context, grounded on the sibling
// mcgru-funxy tree's internal/pipeline package (same
// PipelineContext/Processor/TokenStream shape); that package isn't part
// of the retrieved teacher copy at all, so it is reconstructed here from
// the real call sites in internal/parser and cmd/lsp. The SymbolTable/
// TraitDefaults/OperatorTraits/TraitImplementations/Loader fields the
// sibling carries for its own type-inference analyzer are dropped: this
// workspace's semantic core (internal/db, internal/semantic) replaces
// that role and doesn't thread state through the pipeline context.
package pipeline

import (
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/token"
	"github.com/funvibe/funxy/internal/typesystem"
)

// TokenStream is the contract a buffered lexer exposes to the parser.
type TokenStream interface {
	Next() token.Token
	Peek(n int) []token.Token
}

// PipelineContext holds all data passed between stages for one file.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenStream
	AstRoot     ast.Node
	TypeMap     map[ast.Node]typesystem.Type
	Errors      []*diagnostics.DiagnosticError
}

// NewPipelineContext creates and initializes a new PipelineContext.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		TypeMap:    make(map[ast.Node]typesystem.Type),
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline runs its processors in order over one context.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
	}
	return ctx
}
