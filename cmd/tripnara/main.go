// ABOUTME: Main entry point for the tripnara CLI
// ABOUTME: Sets up the Cobra root command and maps failures to the exit code
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tripnara/tripnara-go/cmd/tripnara/commands"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		// Reported failures already printed their banner.
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
