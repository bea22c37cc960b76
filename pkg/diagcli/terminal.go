package diagcli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/internal/diagnostics"
)

// severity is the four-level classification `diagnostics.severity`
// (spec.md §6) assigns a diagnostic code to.
type severity string

const (
	sevError   severity = "error"
	sevWarning severity = "warning"
	sevInfo    severity = "info"
	sevHint    severity = "hint"
)

// defaultSeverity is every diagnostic code's built-in level before
// `diagnostics.severity` overrides are applied. Parser/lexer syntax
// errors and analyzer type errors are "error"; everything this
// analyzer currently raises falls in that bucket, so the table exists
// to give config overrides somewhere to land, not because any code
// defaults elsewhere today.
func defaultSeverity(code diagnostics.ErrorCode) severity {
	return sevError
}

func resolveSeverity(code diagnostics.ErrorCode, cfg *config.Config) severity {
	if cfg != nil {
		if s, ok := cfg.Diagnostics.Severity[string(code)]; ok {
			switch severity(s) {
			case sevError, sevWarning, sevInfo, sevHint:
				return severity(s)
			}
		}
	}
	return defaultSeverity(code)
}

// ansi color codes, grounded on original_source/crates/emmylua_check/
// src/terminal_display/display.rs's level coloring (red/yellow/blue/
// cyan for error/warning/info/hint).
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiCyan   = "\x1b[36m"
	ansiGray   = "\x1b[90m"
)

func (s severity) color() string {
	switch s {
	case sevError:
		return ansiRed
	case sevWarning:
		return ansiYellow
	case sevInfo:
		return ansiBlue
	case sevHint:
		return ansiCyan
	default:
		return ""
	}
}

// terminal renders check results the way display.rs's TerminalDisplay
// does: a colored per-file header with severity counts, then one
// rustc-style block per diagnostic (level, message with its code, and
// location). No source snippet is printed.
type terminal struct {
	w     io.Writer
	color bool
}

// newTerminal builds a terminal writing to w. color is further gated
// by isatty.IsTerminal, matching display.rs's atty::is check: color
// is only emitted when both the caller asked for it (no --no-color)
// and stdout is actually a terminal, never when output is piped or
// redirected.
func newTerminal(w io.Writer, wantColor bool) *terminal {
	supportsColor := wantColor
	if f, ok := w.(*os.File); ok {
		supportsColor = supportsColor && isatty.IsTerminal(f.Fd())
	} else {
		supportsColor = false
	}
	return &terminal{w: w, color: supportsColor}
}

func (t *terminal) paint(code, text string) string {
	if !t.color {
		return text
	}
	return code + text + ansiReset
}

func (t *terminal) displayAll(results []fileDiagnostics, cfg *config.Config) {
	for _, r := range results {
		t.displayFile(r, cfg)
	}
}

func (t *terminal) displayFile(r fileDiagnostics, cfg *config.Config) {
	counts := map[severity]int{}
	for _, d := range r.Diags {
		counts[resolveSeverity(d.Code, cfg)]++
	}
	fmt.Fprintf(t.w, "%s %s\n", t.paint(ansiBold, "---"), r.Path)
	if len(r.Diags) == 0 {
		fmt.Fprintf(t.w, "  %s\n", t.paint(ansiGray, "no problems found"))
		return
	}
	fmt.Fprintf(t.w, "  %s\n", summarize(counts))

	for _, d := range r.Diags {
		t.displayOne(r.Path, d, resolveSeverity(d.Code, cfg))
	}
}

func summarize(counts map[severity]int) string {
	var parts []string
	for _, s := range []severity{sevError, sevWarning, sevInfo, sevHint} {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s%s", n, s, plural(n)))
		}
	}
	if len(parts) == 0 {
		return "no problems found"
	}
	return strings.Join(parts, ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// displayOne prints one rustc-style diagnostic block: level + message,
// then the file:line:col location, grounded on display.rs's
// display_single_diagnostic.
func (t *terminal) displayOne(path string, d *diagnostics.DiagnosticError, sev severity) {
	label := t.paint(sev.color()+ansiBold, string(sev)+":")
	fmt.Fprintf(t.w, "%s %s\n", label, d.Error())
	if d.Token.Line > 0 {
		fmt.Fprintf(t.w, "  %s %s:%d:%d\n", t.paint(ansiBlue, "-->"), path, d.Token.Line, d.Token.Column)
	} else {
		fmt.Fprintf(t.w, "  %s %s\n", t.paint(ansiBlue, "-->"), path)
	}
	fmt.Fprintln(t.w)
}
