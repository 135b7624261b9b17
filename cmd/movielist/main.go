// Package main provides the movielist CLI. Running it without a subcommand
// starts the interactive session over the CSV stores in the data directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "movielist:", err)
		os.Exit(exitCode(err))
	}
}
