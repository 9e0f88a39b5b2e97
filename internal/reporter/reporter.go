// Package reporter implements the diagnostic surface the core pipelines
// consume. The core only depends on the Reporter interface; this package's
// colorized, position-aware implementation is the "external shell" piece
// both CLIs wire in at startup.
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Kind classifies a diagnostic by the pipeline stage that raised it.
type Kind string

const (
	Lex      Kind = "lex"
	Parse    Kind = "parse"
	Resolve  Kind = "resolve"
	Runtime  Kind = "runtime"
	Internal Kind = "internal"
)

// Reporter is the interface the lexer, parser, resolver, interpreter, and
// VM consume to surface a diagnostic tied to a source line.
type Reporter interface {
	Report(line int, message string)
}

// Diagnostic is one reported problem, kept for structured inspection by
// tests and the colorized CLI renderer.
type Diagnostic struct {
	Kind    Kind
	Message string
	Line    int
}

// Console is the default Reporter: it prints to an io.Writer, tracks the
// "had error" flag spec.md requires, and implements the panic-mode
// suppression that silences repeated reports until Reset is called.
type Console struct {
	out         io.Writer
	source      string
	file        string
	diagnostics []Diagnostic
	kind        Kind
	hadError    bool
	panicking   bool
	color       bool
}

// NewConsole creates a reporter that writes formatted diagnostics to out.
// useColor should reflect whether out is an interactive terminal.
func NewConsole(out io.Writer, useColor bool) *Console {
	return &Console{out: out, color: useColor, kind: Runtime}
}

// WithSource attaches the source text and file name so reports can echo
// the offending source line under the header. Diagnostics carry a line
// only, so no column caret is drawn.
func (c *Console) WithSource(source, file string) *Console {
	c.source, c.file = source, file
	return c
}

// WithKind tags subsequent reports with a pipeline stage, until changed
// again. The CLI sets this before invoking each stage.
func (c *Console) WithKind(k Kind) *Console {
	c.kind = k
	return c
}

// Report implements Reporter. While panicking, reports are absorbed
// (the had-error flag still stands) per spec.md §7.
func (c *Console) Report(line int, message string) {
	c.hadError = true
	c.diagnostics = append(c.diagnostics, Diagnostic{Kind: c.kind, Line: line, Message: message})
	if c.panicking {
		return
	}
	c.panicking = true
	fmt.Fprint(c.out, c.format(line, message))
}

// Reset clears the panic-mode flag between REPL lines. The had-error flag
// is left untouched by design — callers that want a fresh run call
// ResetAll instead.
func (c *Console) Reset() {
	c.panicking = false
}

// ResetAll clears both the panic-mode and had-error flags, used by the
// REPL between top-level lines so one bad line doesn't poison the rest
// of the session.
func (c *Console) ResetAll() {
	c.panicking = false
	c.hadError = false
}

// HadError reports whether any diagnostic has been recorded since the
// last ResetAll.
func (c *Console) HadError() bool {
	return c.hadError
}

// Diagnostics returns every diagnostic recorded since construction, for
// tests that want to assert on structured output rather than stdout text.
func (c *Console) Diagnostics() []Diagnostic {
	return c.diagnostics
}

func (c *Console) format(line int, message string) string {
	var sb strings.Builder

	header := fmt.Sprintf("[line %d] Error: %s\n", line, message)
	if c.color {
		sb.WriteString(color.New(color.FgRed, color.Bold).Sprint(header))
	} else {
		sb.WriteString(header)
	}

	if sourceLine := c.sourceLine(line); sourceLine != "" {
		prefix := fmt.Sprintf("%4d | ", line)
		sb.WriteString(prefix)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (c *Console) sourceLine(line int) string {
	if c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
