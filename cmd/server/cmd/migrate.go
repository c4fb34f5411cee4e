package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventsapp/config"
	"eventsapp/internal/repository/sqlstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Apply the schema for users, events and login sessions to the database
selected by DB_DRIVER and DATABASE_URL. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		logger := config.NewLogger(logLevel)

		db, err := sqlstore.Open(cmd.Context(), cfg.DBDriver, cfg.DBUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer db.Close()

		if err := sqlstore.Migrate(cmd.Context(), db, cfg.DBDriver); err != nil {
			return err
		}
		logger.Info("schema up to date", "driver", cfg.DBDriver)
		return nil
	},
}
