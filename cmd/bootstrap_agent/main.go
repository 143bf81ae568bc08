// Package main provides the entry point for the platform bootstrap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "bootstrap_agent",
	Short: "Call platform deployment bootstrap",
	Long:  "bootstrap_agent prepares a deployment environment for the call platform: it installs dependencies, collects static assets, applies schema migrations, and seeds platform and referral settings, in that order, stopping at the first failure.",
}

var (
	flagManifest string
	flagVerbose  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagManifest, "config", "", "Path to bootstrap.yaml manifest (optional)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
}

// loadConfig loads the manifest (or defaults), applies the environment and
// global flags, and validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagManifest)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
