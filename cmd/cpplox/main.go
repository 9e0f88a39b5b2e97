// Command cpplox is the tree-walking Lox interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/loxlang/golox/cmd/cpplox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
