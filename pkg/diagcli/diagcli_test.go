package diagcli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/funxy/pkg/diagcli"
)

// spec.md §6 "Exit codes (CLI): 0 ok · 1 diagnostics found (errors) ·
// 2 configuration or IO error."
func TestRunCheckCleanFileExitsOK(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.funxy")
	if err := os.WriteFile(src, []byte("a = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := diagcli.Run([]string{"check", src}, &stdout, &stderr)
	if code != diagcli.ExitOK {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
}

func TestRunCheckMissingPathIsConfigError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := diagcli.Run([]string{"check", "/no/such/path/at/all"}, &stdout, &stderr)
	if code != diagcli.ExitConfigOrIO {
		t.Fatalf("expected exit 2 for a missing path, got %d", code)
	}
}

func TestRunUnknownSubcommandIsConfigError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := diagcli.Run([]string{"frobnicate"}, &stdout, &stderr)
	if code != diagcli.ExitConfigOrIO {
		t.Fatalf("expected exit 2 for an unknown subcommand, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected a usage message on stderr")
	}
}

func TestRunNoArgsIsConfigError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := diagcli.Run(nil, &stdout, &stderr)
	if code != diagcli.ExitConfigOrIO {
		t.Fatalf("expected exit 2 with no arguments, got %d", code)
	}
}

func TestRunHelpExitsOK(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := diagcli.Run([]string{"--help"}, &stdout, &stderr)
	if code != diagcli.ExitOK {
		t.Fatalf("expected exit 0 for --help, got %d", code)
	}
	if stdout.Len() == 0 {
		t.Fatal("expected usage text on stdout")
	}
}

// spec.md §6 "doc <path> --output <dir> (emits JSON or Markdown)".
func TestRunDocWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.funxy")
	if err := os.WriteFile(src, []byte("fun add(x: Int, y: Int) Int { x + y }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := diagcli.Run([]string{"doc", src, "--output", outDir}, &stdout, &stderr)
	if code != diagcli.ExitOK {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("expected output directory to be created: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one doc file to be written")
	}
}
