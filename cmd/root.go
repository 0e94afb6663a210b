package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/avikmasanta/urlshortener/internal/config"
)

// Cfg holds the loaded configuration, accessible to all Cobra commands.
var Cfg *config.Config

// RootCmd is the base command for the CLI application.
// Subcommands (run-server, create, stats, list, purge, migrate) register
// themselves via their own init() functions, which keeps the command
// packages decoupled and avoids import cycles.
var RootCmd = &cobra.Command{
	Use:   "urlshortener",
	Short: "A URL shortener with click analytics",
	Long: `A URL shortener application that creates shortened URLs with a
validity window, redirects visitors, and records click statistics.`,
}

// Execute is the entry point for the Cobra application, called from main.go.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Load configuration before any command runs.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration; defaults cover every key
// so a missing config file is only a warning.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
