// cmd/truthweb/main.go
//
// This is the entry point for the truthweb CLI.
// Running `truthweb` with no arguments opens the survey TUI; the
// subcommands work on the same answer files without a terminal UI.

package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A .env next to the working directory may set TRUTHWEB_HOME.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
