package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/db"
	"github.com/callgrid/platform-bootstrap/internal/referral"
)

var initReferralSettingsCommand = &cobra.Command{
	Use:   "init-referral-settings",
	Short: "Seed default referral settings",
	Long:  "Initializes the default referral program settings (reward amount, self-referral policy, code limits). Existing values are overwritten with the defaults.",
	RunE:  initReferralSettingsCmd,
}

func init() {
	rootCmd.AddCommand(initReferralSettingsCommand)
}

func initReferralSettingsCmd(cmd *cobra.Command, _ []string) error {
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

	init := &referral.Initializer{Store: conn, Out: os.Stdout}
	_, err = init.Run(ctx)
	return err
}
