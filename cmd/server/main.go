package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"birthdays/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootCmd runs the HTTP server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:           "birthdays",
	Short:         "Birthday tracker with shareable submission links",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.Version = version
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
