package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/interp"
	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/repl"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/resolver"
)

// Version is stamped by build flags; see version.go.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:           "cpplox [script]",
	Short:         "cpplox is a tree-walking interpreter for Lox",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the cpplox command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// runRoot implements spec.md §6's three invocation forms: no args opens
// the REPL, one arg runs that file, and anything else prints a usage
// line and exits 0 rather than erroring.
func runRoot(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return runREPL()
	case 1:
		return runFile(args[0])
	default:
		fmt.Println("Usage: cpplox [script]")
		os.Exit(0)
		return nil
	}
}

// parseAndResolve lexes, parses, and resolves source, reporting through
// report. ok is false if any stage failed, in which case the caller
// should not attempt to run the (possibly incomplete) program.
func parseAndResolve(source, file string, report *reporter.Console) (*ast.Program, map[ast.Expr]int, bool) {
	report.WithKind(reporter.Lex)
	l := lexer.New(source, report)

	report.WithKind(reporter.Parse)
	p := parser.New(l, report)
	prog := p.Parse()
	if report.HadError() {
		return nil, nil, false
	}

	report.WithKind(reporter.Resolve)
	depths := resolver.New(report).Resolve(prog)
	if report.HadError() {
		return nil, nil, false
	}

	report.WithKind(reporter.Runtime)
	return prog, depths, true
}

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	useColor := isatty.IsTerminal(os.Stdout.Fd())
	report := reporter.NewConsole(os.Stdout, useColor).WithSource(string(source), path)
	prog, depths, ok := parseAndResolve(string(source), path, report)
	if !ok {
		os.Exit(1)
	}
	in := interp.New(os.Stdout, report, depths)
	in.Run(prog)
	if report.HadError() {
		os.Exit(1)
	}
	return nil
}

func runREPL() error {
	useColor := isatty.IsTerminal(os.Stdout.Fd())
	report := reporter.NewConsole(os.Stdout, useColor)
	in := interp.New(os.Stdout, report, nil)

	run := func(source string) error {
		report.WithSource(source, "<stdin>")
		prog, depths, ok := parseAndResolve(source, "<stdin>", report)
		if !ok {
			return nil
		}
		in.SetDepths(depths)
		in.Run(prog)
		return nil
	}

	r := repl.New("> ", run, report)
	return r.Start(os.Stdin, os.Stdout)
}
