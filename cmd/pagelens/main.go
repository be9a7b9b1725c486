// Package main is the entry point for the pagelens CLI.
package main

import (
	"os"

	"github.com/jmylchreest/pagelens/cmd/pagelens/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
