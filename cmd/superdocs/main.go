// Package main provides the entry point for the superdocs CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "superdocs",
	Short: "AI documentation generator",
	Long:  "superdocs ingests a codebase from disk or GitHub, plans a documentation structure, and generates grounded Markdown pages with resumable per-page state.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
