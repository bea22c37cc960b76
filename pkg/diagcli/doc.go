package diagcli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/db"
	"github.com/funvibe/funxy/internal/declanalysis"
	"github.com/funvibe/funxy/internal/envwire"
	"github.com/funvibe/funxy/internal/ids"
	"github.com/funvibe/funxy/internal/lexer"
	"github.com/funvibe/funxy/internal/members"
	"github.com/funvibe/funxy/internal/parser"
	"github.com/funvibe/funxy/internal/pipeline"
	"github.com/funvibe/funxy/internal/typesystem"
)

// typeDoc is one documented nominal type's emitted shape: its kind,
// declared supertypes and resolved members (spec.md §6 `doc` output,
// spec.md §4.9 MemberInfo as the member shape).
type typeDoc struct {
	Name    string      `json:"name"`
	Kind    string      `json:"kind"`
	Supers  []string    `json:"supers,omitempty"`
	Members []memberDoc `json:"members,omitempty"`
}

type memberDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// fileDoc is one source file's documented declarations, the `doc`
// subcommand's per-file output unit.
type fileDoc struct {
	Path    string    `json:"path"`
	Types   []typeDoc `json:"types,omitempty"`
	Globals []string  `json:"globals,omitempty"`
}

// runDoc implements `diagcli doc <path> --output <dir>` (spec.md §6).
func runDoc(args []string, stdout, stderr io.Writer) int {
	path, outDir, format, err := parseDocArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "diagcli doc: %v\n%s", err, usage)
		return ExitConfigOrIO
	}

	root := path
	if info, statErr := os.Stat(root); statErr == nil && !info.IsDir() {
		root = filepath.Dir(root)
	}
	cfg, err := config.LoadChain(root)
	if err != nil {
		fmt.Fprintf(stderr, "diagcli doc: %v\n", err)
		return ExitConfigOrIO
	}

	files, err := collectSourceFiles(path, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "diagcli doc: %v\n", err)
		return ExitConfigOrIO
	}
	if len(files) == 0 {
		fmt.Fprintf(stderr, "diagcli doc: no source files found under %s\n", path)
		return ExitConfigOrIO
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "diagcli doc: %v\n", err)
		return ExitConfigOrIO
	}

	for _, f := range files {
		doc, err := documentFile(f, cfg)
		if err != nil {
			fmt.Fprintf(stderr, "diagcli doc: %s: %v\n", f, err)
			return ExitConfigOrIO
		}
		if err := writeDoc(outDir, doc, format); err != nil {
			fmt.Fprintf(stderr, "diagcli doc: %s: %v\n", f, err)
			return ExitConfigOrIO
		}
	}

	fmt.Fprintf(stdout, "wrote docs for %d file(s) to %s\n", len(files), outDir)
	return ExitOK
}

func parseDocArgs(args []string) (path, outDir, format string, err error) {
	format = "json"
	var positional []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--output":
			if i+1 >= len(args) {
				return "", "", "", fmt.Errorf("--output requires a value")
			}
			i++
			outDir = args[i]
		case "--format":
			if i+1 >= len(args) {
				return "", "", "", fmt.Errorf("--format requires a value")
			}
			i++
			format = args[i]
		default:
			positional = append(positional, args[i])
		}
	}
	if len(positional) != 1 {
		return "", "", "", fmt.Errorf("expected exactly one <path> argument")
	}
	if outDir == "" {
		return "", "", "", fmt.Errorf("missing --output <dir>")
	}
	if format != "json" && format != "markdown" {
		return "", "", "", fmt.Errorf("unknown --format %q (want json or markdown)", format)
	}
	return positional[0], outDir, format, nil
}

// documentFile runs the same indexing pipeline as analyzeFile, then
// renders every type declared in the resulting index plus its members
// (found via members.FindMembers, spec.md §4.9) and every global.
func documentFile(path string, cfg *config.Config) (*fileDoc, error) {
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

	doc := &fileDoc{Path: path}

	names := make([]ids.TypeDeclId, 0, len(index.Types.Names))
	for id := range index.Types.Names {
		names = append(names, id)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	for _, id := range names {
		doc.Types = append(doc.Types, documentType(id, index, envs))
	}
	doc.Globals = index.Globals.Names()
	sort.Strings(doc.Globals)

	return doc, nil
}

func documentType(id ids.TypeDeclId, index *db.Index, envs *envwire.Set) typeDoc {
	td := typeDoc{Name: index.Types.Names[id], Kind: kindName(index.Types.Kinds[id])}
	for _, s := range index.Types.Supers[id] {
		td.Supers = append(td.Supers, typesystem.Humanize(s))
	}
	for _, m := range members.FindMembers(typesystem.Ref{Id: id}, envs.Members) {
		td.Members = append(td.Members, memberDoc{Name: m.Key.String(), Type: typesystem.Humanize(m.Type)})
	}
	return td
}

func kindName(k db.TypeDeclKind) string {
	switch k {
	case db.TypeKindClass:
		return "class"
	case db.TypeKindAlias:
		return "alias"
	case db.TypeKindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

func writeDoc(outDir string, doc *fileDoc, format string) error {
	base := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path))
	switch format {
	case "markdown":
		return os.WriteFile(filepath.Join(outDir, base+".md"), []byte(renderMarkdown(doc)), 0o644)
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(outDir, base+".json"), data, 0o644)
	}
}

func renderMarkdown(doc *fileDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Path)
	for _, t := range doc.Types {
		fmt.Fprintf(&b, "## %s (%s)\n\n", t.Name, t.Kind)
		if len(t.Supers) > 0 {
			fmt.Fprintf(&b, "extends: %s\n\n", strings.Join(t.Supers, ", "))
		}
		for _, m := range t.Members {
			fmt.Fprintf(&b, "- `%s`: `%s`\n", m.Name, m.Type)
		}
		b.WriteString("\n")
	}
	if len(doc.Globals) > 0 {
		b.WriteString("## globals\n\n")
		for _, g := range doc.Globals {
			fmt.Fprintf(&b, "- `%s`\n", g)
		}
	}
	return b.String()
}
