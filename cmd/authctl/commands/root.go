// Package commands implements authctl, the operator tool for keys, users and
// migrations.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dtroode/storeauth/internal/config"
)

// NewRootCmd creates the authctl root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Manage storeauth signing keys, users and database schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newKeygenCommand(),
		newHashPasswordCommand(),
		newCreateUserCommand(),
		newDeleteUserCommand(),
		newMigrateCommand(),
	)

	return rootCmd
}

// loadConfig reads the same environment the server does.
func loadConfig() (*config.Config, error) {
	return config.NewConfig()
}
