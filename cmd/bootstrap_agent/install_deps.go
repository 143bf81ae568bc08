package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/deps"
)

var installDepsCommand = &cobra.Command{
	Use:   "install-deps",
	Short: "Install the platform's runtime dependencies",
	Long:  "Runs the configured dependency installer non-interactively. This is step 1 of the bootstrap sequence; it can be run standalone to verify the dependency manifest resolves.",
	RunE:  installDepsCmd,
}

func init() {
	rootCmd.AddCommand(installDepsCommand)
}

func installDepsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inst := &deps.Installer{
		Command: cfg.Deps.Command,
		Dir:     cfg.Deps.Dir,
		Stdout:  os.Stdout,
	}
	return inst.Install(context.Background())
}
