package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/bootstrap"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full bootstrap sequence end-to-end",
	Long: `Executes the canonical bootstrap sequence: install -> collect-assets -> migrate -> init-platform-settings -> init-referral-settings.

Execution is strictly sequential and stops at the first failing step; completed steps are not rolled back. Every step is safe to re-run, so the recovery procedure for a failed run is to fix the cause and run the whole sequence again.`,
	RunE: runBootstrapCmd,
}

func init() {
	rootCmd.AddCommand(runCommand)
}

func runBootstrapCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	runner, cleanup := bootstrap.NewRunner(cfg, os.Stdout)
	defer cleanup()

	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}
	if !result.Completed() {
		// Non-zero exit so upstream automation halts too.
		return fmt.Errorf("bootstrap aborted at step %d (%s): %w",
			result.FailedIndex+1, result.FailedStep, result.Cause)
	}
	return nil
}
