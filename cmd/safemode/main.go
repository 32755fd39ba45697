// Package main provides the entry point for the safemode CLI.
package main

import (
	"fmt"
	"os"

	"github.com/opencode-ai/safemode/cmd/safemode/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
