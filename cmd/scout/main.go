package main

import (
	"os"

	"github.com/filingsight/filingsight/cmd/scout/commands"
)

// main is the entry point for the FilingSight CLI: go run ./cmd/scout [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
