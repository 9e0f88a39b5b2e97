// Package repl implements the interactive "read a line, run it" loop
// shared by cpplox and blox. Each pipeline wires in its own Run
// function; the loop itself only knows about readline and the
// reporter's panic/had-error flags.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/loxlang/golox/internal/reporter"
)

var errColor = color.New(color.FgRed)

// Runner executes one line (or file's worth) of source against a
// persistent pipeline state and reports diagnostics through report.
// cpplox's Runner closes over an *interp.Interpreter and its resolver
// depths map; blox's closes over a *bytecode.VM.
type Runner func(source string) error

// REPL is the "> " prompt loop spec.md §6 describes: read a line,
// hand it to run, reset the reporter's panic and had-error flags so
// one bad line doesn't poison the next, and keep going until EOF.
type REPL struct {
	Prompt string
	Run    Runner
	Report *reporter.Console
}

// New builds a REPL with the given prompt, runner, and reporter.
func New(prompt string, run Runner, report *reporter.Console) *REPL {
	return &REPL{Prompt: prompt, Run: run, Report: report}
}

// Start drives the loop against in/out until EOF (Ctrl+D) or a
// readline error. Errors returned by Run are printed to out in red;
// Start itself never exits with an error for them,
// matching spec.md's "errors are reported but do not exit" rule.
func (r *REPL) Start(in io.Reader, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: r.Prompt,
		Stdin:  io.NopCloser(in),
		Stdout: out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF (Ctrl+D) or interrupt: exit the loop cleanly.
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		r.Report.ResetAll()
		if err := r.Run(line); err != nil {
			errColor.Fprintf(out, "%s\n", err.Error())
		}
	}
}
