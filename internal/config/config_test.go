package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/funxy/internal/config"
)

// spec.md §6 "Config loading order (lowest to highest precedence): ...
// workspace-local luarc, workspace-local emmyrc". Within a single
// workspace directory, .emmyrc.json must win over .luarc.json.
func TestLoadChainWorkspaceEmmyrcWinsOverLuarc(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".luarc.json"), `{"runtime":{"version":"5.1"}}`)
	mustWrite(t, filepath.Join(dir, ".emmyrc.json"), `{"runtime":{"version":"5.4"}}`)

	cfg, err := config.LoadChain(dir)
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if cfg.Runtime.Version != "5.4" {
		t.Fatalf("expected workspace emmyrc (5.4) to win, got %q", cfg.Runtime.Version)
	}
}

func TestLoadChainMissingFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadChain(dir)
	if err != nil {
		t.Fatalf("LoadChain with no config files should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a default config")
	}
}

func TestLoadChainUnparseableFileErrors(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, ".emmyrc.json"), "{\n")

	if _, err := config.LoadChain(dir); err == nil {
		t.Fatal("expected an error for an unparseable config file")
	}
}

// spec.md §6 diagnostics.disable.
func TestMergeAccumulatesDisabledDiagnostics(t *testing.T) {
	base := &config.Config{Diagnostics: config.Diagnostics{Disable: []string{"unused-local"}}}
	overlay := &config.Config{Diagnostics: config.Diagnostics{Disable: []string{"undefined-field"}}}

	merged := config.Merge(base, overlay)
	if !merged.IsDisabled("unused-local") || !merged.IsDisabled("undefined-field") {
		t.Fatalf("expected both codes disabled, got %v", merged.Diagnostics.Disable)
	}
}

// spec.md §6 strict.requirePath / strict.docIntegerConstMatchInt defaults.
func TestStrictDefaults(t *testing.T) {
	cfg := config.Default()
	if cfg.Strict.RequirePathEnabled() {
		t.Fatal("requirePath should default to false (fuzzy resolution enabled)")
	}
	if !cfg.Strict.DocIntMatchInt() {
		t.Fatal("docIntegerConstMatchInt should default to true")
	}
	if cfg.Strict.ClassInheritanceEnabled() {
		t.Fatal("classInheritance should default to false (permissive, spec.md §9)")
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
