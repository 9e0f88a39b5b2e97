// Command blox is the single-pass bytecode compiler and stack VM for Lox.
package main

import (
	"fmt"
	"os"

	"github.com/loxlang/golox/cmd/blox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
