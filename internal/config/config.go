// Package config implements the `.emmyrc.json` / `.luarc.json` loader
// and precedence chain from spec.md §6. It is ambient infrastructure
// (spec.md §1 "the CLI and configuration loaders" are an external
// collaborator the CORE package interfaces consume, not a CORE
// component) consumed by pkg/diagcli and cmd/lsp.
//
// Grounded on the teacher's internal/ext/config.go: a tagged struct
// unmarshalled with gopkg.in/yaml.v3 (YAML is a JSON superset, so the
// same decoder reads both `.luarc.json`'s JSON and any future YAML
// variant), plus a FindConfig-style directory walk and a validate/
// setDefaults pair. Config here has no validate() analog (every field
// is optional; an unset strict flag takes its per-field default through
// boolOr) but keeps the Load/Parse/Find naming.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModuleMapEntry is one workspace.moduleMap rule (spec.md §6).
type ModuleMapEntry struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

// Runtime is the spec.md §6 `runtime` option group.
type Runtime struct {
	Extensions     []string `yaml:"extensions,omitempty"`
	RequirePattern []string `yaml:"requirePattern,omitempty"`
	Version        string   `yaml:"version,omitempty"`
}

// Workspace is the spec.md §6 `workspace` option group.
type Workspace struct {
	IgnoreGlobs []string         `yaml:"ignoreGlobs,omitempty"`
	Encoding    string           `yaml:"encoding,omitempty"`
	ModuleMap   []ModuleMapEntry `yaml:"moduleMap,omitempty"`
}

// Strict is the spec.md §6 `strict` option group, plus
// classInheritance (spec.md §9 Open Question: the permissive super/
// sub-type compatibility behavior is preserved and gated behind this
// flag, default false — see DESIGN.md).
type Strict struct {
	RequirePath             *bool `yaml:"requirePath,omitempty"`
	DocIntegerConstMatchInt *bool `yaml:"docIntegerConstMatchInt,omitempty"`
	ClassInheritance        *bool `yaml:"classInheritance,omitempty"`
}

func (s Strict) requirePath() bool            { return boolOr(s.RequirePath, false) }
func (s Strict) docIntegerConstMatchInt() bool { return boolOr(s.DocIntegerConstMatchInt, true) }
func (s Strict) classInheritance() bool        { return boolOr(s.ClassInheritance, false) }

// RequirePathEnabled reports whether fuzzy module resolution is disabled.
func (s Strict) RequirePathEnabled() bool { return s.requirePath() }

// DocIntMatchInt reports whether DocIntConst matches Integer (compat.Env.StrictDocIntMatchInt).
func (s Strict) DocIntMatchInt() bool { return s.docIntegerConstMatchInt() }

// ClassInheritanceEnabled reports whether the permissive super/sub-type
// compatibility rule (spec.md §4.8 Classes bullet) is disabled in favor
// of strict nominal matching.
func (s Strict) ClassInheritanceEnabled() bool { return s.classInheritance() }

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// Hint is the spec.md §6 `hint` option group.
type Hint struct {
	ParamHint    *bool `yaml:"paramHint,omitempty"`
	LocalHint    *bool `yaml:"localHint,omitempty"`
	OverrideHint *bool `yaml:"overrideHint,omitempty"`
	MetaCallHint *bool `yaml:"metaCallHint,omitempty"`
}

// Diagnostics is the spec.md §6 `diagnostics` option group.
type Diagnostics struct {
	Severity map[string]string `yaml:"severity,omitempty"`
	Disable  []string          `yaml:"disable,omitempty"`
}

// Config is the parsed, merged `.emmyrc.json`/`.luarc.json` document.
type Config struct {
	Runtime     Runtime     `yaml:"runtime"`
	Workspace   Workspace   `yaml:"workspace"`
	Strict      Strict      `yaml:"strict"`
	Hint        Hint        `yaml:"hint"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
}

// Default returns the analyzer's built-in defaults (every source the
// precedence chain doesn't override). Hint options are on by default,
// matching the teacher's own hover/inlay behavior.
func Default() *Config {
	t := true
	return &Config{
		Hint: Hint{
			ParamHint:    &t,
			LocalHint:    &t,
			OverrideHint: &t,
			MetaCallHint: &t,
		},
	}
}

// Parse parses config document bytes. path is used only in error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return &cfg, nil
}

// LoadFile reads and parses a single config file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return Parse(data, path)
}

// LoadError wraps a config-loading failure with the offending path
// (spec.md §6 CLI exit code 2 "configuration or IO error").
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// candidatePaths returns the precedence chain's file-backed sources, in
// lowest-to-highest order (spec.md §6 "Config loading order"): user-home
// luarc, user-home emmyrc, config-dir luarc, config-dir emmyrc,
// $EMMYLUALS_CONFIG, workspace-local luarc, workspace-local emmyrc.
// The final, highest-precedence source (LSP-pushed partial configs) has
// no file and is merged in by the caller via Merge.
func candidatePaths(workspaceDir string) []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".luarc.json"), filepath.Join(home, ".emmyrc.json"))
	}
	if cfgDir, err := os.UserConfigDir(); err == nil && cfgDir != "" {
		paths = append(paths, filepath.Join(cfgDir, ".luarc.json"), filepath.Join(cfgDir, ".emmyrc.json"))
	}
	if envPath := os.Getenv("EMMYLUALS_CONFIG"); envPath != "" {
		paths = append(paths, envPath)
	}
	if workspaceDir != "" {
		paths = append(paths, filepath.Join(workspaceDir, ".luarc.json"), filepath.Join(workspaceDir, ".emmyrc.json"))
	}
	return paths
}

// LoadChain builds the fully merged config for workspaceDir by walking
// the precedence chain (spec.md §6) in order, merging each file that
// exists on top of the previous result. A missing file is skipped, not
// an error; a present-but-unparseable file is.
func LoadChain(workspaceDir string) (*Config, error) {
	cfg := Default()
	for _, p := range candidatePaths(workspaceDir) {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		overlay, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		cfg = Merge(cfg, overlay)
	}
	return cfg, nil
}

// Merge returns a new Config with overlay's explicitly-set fields
// taking precedence over base's (spec.md §6's precedence chain is
// exactly this merge applied source-by-source, ending with an
// LSP-pushed partial config as the final, highest-precedence overlay).
func Merge(base, overlay *Config) *Config {
	if base == nil {
		base = Default()
	}
	if overlay == nil {
		return base
	}
	out := *base

	if len(overlay.Runtime.Extensions) > 0 {
		out.Runtime.Extensions = append(append([]string{}, base.Runtime.Extensions...), overlay.Runtime.Extensions...)
	}
	if len(overlay.Runtime.RequirePattern) > 0 {
		out.Runtime.RequirePattern = overlay.Runtime.RequirePattern
	}
	if overlay.Runtime.Version != "" {
		out.Runtime.Version = overlay.Runtime.Version
	}

	if len(overlay.Workspace.IgnoreGlobs) > 0 {
		out.Workspace.IgnoreGlobs = append(append([]string{}, base.Workspace.IgnoreGlobs...), overlay.Workspace.IgnoreGlobs...)
	}
	if overlay.Workspace.Encoding != "" {
		out.Workspace.Encoding = overlay.Workspace.Encoding
	}
	if len(overlay.Workspace.ModuleMap) > 0 {
		out.Workspace.ModuleMap = append(append([]ModuleMapEntry{}, base.Workspace.ModuleMap...), overlay.Workspace.ModuleMap...)
	}

	if overlay.Strict.RequirePath != nil {
		out.Strict.RequirePath = overlay.Strict.RequirePath
	}
	if overlay.Strict.DocIntegerConstMatchInt != nil {
		out.Strict.DocIntegerConstMatchInt = overlay.Strict.DocIntegerConstMatchInt
	}
	if overlay.Strict.ClassInheritance != nil {
		out.Strict.ClassInheritance = overlay.Strict.ClassInheritance
	}

	if overlay.Hint.ParamHint != nil {
		out.Hint.ParamHint = overlay.Hint.ParamHint
	}
	if overlay.Hint.LocalHint != nil {
		out.Hint.LocalHint = overlay.Hint.LocalHint
	}
	if overlay.Hint.OverrideHint != nil {
		out.Hint.OverrideHint = overlay.Hint.OverrideHint
	}
	if overlay.Hint.MetaCallHint != nil {
		out.Hint.MetaCallHint = overlay.Hint.MetaCallHint
	}

	if len(overlay.Diagnostics.Disable) > 0 {
		out.Diagnostics.Disable = append(append([]string{}, base.Diagnostics.Disable...), overlay.Diagnostics.Disable...)
	}
	if len(overlay.Diagnostics.Severity) > 0 {
		merged := make(map[string]string, len(base.Diagnostics.Severity)+len(overlay.Diagnostics.Severity))
		for k, v := range base.Diagnostics.Severity {
			merged[k] = v
		}
		for k, v := range overlay.Diagnostics.Severity {
			merged[k] = v
		}
		out.Diagnostics.Severity = merged
	}

	return &out
}

// IsDisabled reports whether code is listed in diagnostics.disable.
func (c *Config) IsDisabled(code string) bool {
	for _, d := range c.Diagnostics.Disable {
		if d == code {
			return true
		}
	}
	return false
}

// SourceExtensions returns the recognized source extensions for a
// workspace using this config: the analyzer's built-ins plus
// runtime.extensions.
func (c *Config) SourceExtensions() []string {
	out := append([]string{}, SourceFileExtensions...)
	out = append(out, c.Runtime.Extensions...)
	return out
}

// IgnoresPath reports whether path matches one of workspace.ignoreGlobs.
func (c *Config) IgnoresPath(path string) bool {
	for _, g := range c.Workspace.IgnoreGlobs {
		if ok, err := filepath.Match(g, path); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(g, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}
