package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loxlang/golox/internal/lexer"
	"github.com/loxlang/golox/internal/reporter"
	"github.com/loxlang/golox/internal/token"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <script>",
	Short: "Print the token stream for a Lox source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	report := reporter.NewConsole(os.Stdout, false).WithSource(string(source), args[0])
	l := lexer.New(string(source), report)
	for {
		tok := l.Next()
		fmt.Println(tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}
