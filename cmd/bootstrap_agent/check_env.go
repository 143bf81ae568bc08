package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/preflight"
)

var checkEnvCommand = &cobra.Command{
	Use:   "check-env",
	Short: "Verify the environment before bootstrapping",
	Long:  "Probes the deployment environment: database reachability, JWT signing secret, and asset source roots. All probes run even if an earlier one fails, and any failure exits non-zero.",
	RunE:  checkEnvCmd,
}

func init() {
	rootCmd.AddCommand(checkEnvCommand)
}

func checkEnvCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := preflight.Run(context.Background(), preflight.Probes(cfg))
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Printf("FAIL %s: %v\n", res.Name, res.Err)
			continue
		}
		fmt.Printf("  ok %s\n", res.Name)
	}

	if !report.Passed() {
		return fmt.Errorf("environment checks failed")
	}
	fmt.Println("Environment ready for bootstrap.")
	return nil
}
