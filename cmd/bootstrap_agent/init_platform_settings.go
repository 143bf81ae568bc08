package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/db"
	"github.com/callgrid/platform-bootstrap/internal/settings"
)

var initPlatformSettingsCommand = &cobra.Command{
	Use:   "init-platform-settings",
	Short: "Seed default platform settings",
	Long:  "Initializes the default platform settings for call management and the referral system. Existing settings are skipped unless --force is given, so operator-tuned values survive reruns.",
	RunE:  initPlatformSettingsCmd,
}

var (
	initSettingsForce  bool
	initSettingsDryRun bool
)

func init() {
	initPlatformSettingsCommand.Flags().BoolVar(&initSettingsForce, "force", false, "Update settings that already exist")
	initPlatformSettingsCommand.Flags().BoolVar(&initSettingsDryRun, "dry-run", false, "Show what would be created without making changes")
	rootCmd.AddCommand(initPlatformSettingsCommand)
}

func initPlatformSettingsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	url, err := cfg.RequireDatabase()
	if err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := db.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Println("Initializing Platform Settings...")
	if initSettingsDryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
	}

	init := &settings.Initializer{
		Store:  conn,
		Force:  initSettingsForce,
		DryRun: initSettingsDryRun,
		Out:    os.Stdout,
	}
	summary, err := init.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize platform settings: %w", err)
	}

	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("INITIALIZATION SUMMARY:")
	fmt.Printf("New settings created: %d\n", summary.Created)
	if initSettingsForce {
		fmt.Printf("Existing settings updated: %d\n", summary.Updated)
	} else {
		fmt.Printf("Existing settings skipped: %d\n", summary.Skipped)
	}

	if initSettingsDryRun {
		fmt.Println("DRY RUN COMPLETED - No changes were made")
		return nil
	}

	fmt.Println("Platform settings initialization completed successfully!")
	fmt.Println("\nCURRENT SETTINGS:")
	return init.PrintCurrent(ctx)
}
