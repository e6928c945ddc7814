package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/storeauth/database"
	"github.com/dtroode/storeauth/internal/config"
	"github.com/dtroode/storeauth/internal/repository/sqlite"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Apply database migrations for the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			switch cfg.Store.Driver {
			case config.StoreDriverPostgres:
				if err := database.Migrate(cmd.Context(), cfg.Store.DSN); err != nil {
					return err
				}
			case config.StoreDriverSQLite:
				// Open migrates.
				db, err := sqlite.Open(cmd.Context(), cfg.Store.SQLitePath)
				if err != nil {
					return err
				}
				if err := db.Close(); err != nil {
					return err
				}
			default:
				return errors.New("the memory store has no schema")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Store.Driver)
			return nil
		},
	}
}
