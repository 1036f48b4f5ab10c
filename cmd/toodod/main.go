// Package main is the entry point for the toodod MCP server.
package main

import (
	"os"

	"github.com/toodo-app/toodo/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
