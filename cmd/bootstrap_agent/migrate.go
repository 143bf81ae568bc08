package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/callgrid/platform-bootstrap/internal/db"
	"github.com/callgrid/platform-bootstrap/internal/migrate"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  "Applies all pending SQL migrations to the target database, each in its own transaction, stopping at the first failure. Already-applied versions are skipped.",
	RunE:  migrateCmd,
}

func init() {
	rootCmd.AddCommand(migrateCommand)
}

func migrateCmd(cmd *cobra.Command, _ []string) error {
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

	res, err := migrate.Apply(ctx, conn.Pool())
	if err != nil {
		return err
	}

	for _, m := range res.Applied {
		fmt.Printf("Applied %04d_%s\n", m.Version, m.Name)
	}
	fmt.Printf("Migrations: %d applied, %d already applied\n", len(res.Applied), res.Skipped)
	return nil
}
