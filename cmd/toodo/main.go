// Package main is the entry point for the toodo CLI/TUI.
package main

import (
	"os"

	"github.com/toodo-app/toodo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
