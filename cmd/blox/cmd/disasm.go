package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/bytecode"
	"github.com/loxlang/golox/internal/reporter"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <script>",
	Short: "Compile a Lox source file and print its disassembled bytecode",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	report := reporter.NewConsole(os.Stdout, false).WithSource(string(source), args[0])
	fn := bytecode.Compile(string(source), report)
	if report.HadError() {
		os.Exit(1)
	}

	bytecode.NewDisassembler(fn.Chunk, os.Stdout).Disassemble()
	return nil
}
