package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/assets"
)

var collectAssetsCommand = &cobra.Command{
	Use:   "collect-assets",
	Short: "Collect static assets into their served location",
	Long:  "Copies static files from the configured source roots into the collect root, writes a content-hash manifest, and optionally verifies that collected HTML references only collected files. Never prompts for confirmation.",
	RunE:  collectAssetsCmd,
}

func init() {
	rootCmd.AddCommand(collectAssetsCommand)
}

func collectAssetsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	collector := &assets.Collector{
		SourceRoots:      cfg.Assets.SourceRoots,
		CollectRoot:      cfg.Assets.CollectRoot,
		VerifyReferences: cfg.Assets.VerifyReferences,
	}

	res, err := collector.Collect(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Collected %d static files into %s\n", res.Copied, cfg.Assets.CollectRoot)
	if cfg.Verbose {
		res.Manifest.Dump(os.Stdout)
	}
	return nil
}
