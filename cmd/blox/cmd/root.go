package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/bytecode"
	"github.com/loxlang/golox/internal/repl"
	"github.com/loxlang/golox/internal/reporter"
)

// Version is stamped by build flags; see version.go.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:           "blox [script]",
	Short:         "blox is a bytecode compiler and stack VM for Lox",
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the blox command tree.
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
		fmt.Println("Usage: blox [script]")
		os.Exit(0)
		return nil
	}
}

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	useColor := isatty.IsTerminal(os.Stdout.Fd())
	report := reporter.NewConsole(os.Stdout, useColor).WithSource(string(source), path)
	vm := bytecode.New(os.Stdout, report)
	vm.Interpret(string(source))
	if report.HadError() {
		os.Exit(1)
	}
	return nil
}

func runREPL() error {
	useColor := isatty.IsTerminal(os.Stdout.Fd())
	report := reporter.NewConsole(os.Stdout, useColor)
	vm := bytecode.New(os.Stdout, report)

	run := func(source string) error {
		report.WithSource(source, "<stdin>")
		vm.Interpret(source)
		return nil
	}

	r := repl.New("> ", run, report)
	return r.Start(os.Stdin, os.Stdout)
}
