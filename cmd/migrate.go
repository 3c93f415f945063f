package main

import (
	"fmt"

	"github.com/gan-shmuel/weight-service/internal/app"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the ledger schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app.InitializeLogger(cfg.Log)

		db, err := app.InitializeDatabase(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close(cmd.Context())

		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}
