package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/athomax/shorturl/internal/config"
	"github.com/spf13/cobra"
)

// Cfg holds the loaded configuration, available to every subcommand.
var Cfg *config.Config

// RootCmd is the base command. Subcommands (run-server, create, stats,
// migrate) register themselves from their own init functions, which keeps
// the command packages free of import cycles.
var RootCmd = &cobra.Command{
	Use:   "shorturl",
	Short: "A URL shortening service",
	Long: `shorturl creates short slugs for long URLs, serves the redirects
and tracks click counts per slug.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig runs before any subcommand and loads the configuration.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: problem loading configuration: %v. Using default values.", err)
	}
}
