package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/storeauth/internal/app"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
	"github.com/dtroode/storeauth/internal/service"
)

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Print the stored form of a password",
		Long:  `Hash a password with the configured argon2id cost. Without an argument the password is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			plain, err := passwordArg(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			lg := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
			hash, err := app.PasswordCodec(cfg.Password, lg).Hash(plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func passwordArg(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

func newCreateUserCommand() *cobra.Command {
	var (
		params service.CreateUserParams
		role   string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Args:  cobra.NoArgs,
		Short: "Create an account in the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if role != "" {
				r, err := model.ParseRole(role)
				if err != nil {
					return err
				}
				params.Role = r
			}
			if params.Password == "" {
				if params.Password, err = passwordArg(cmd.InOrStdin(), nil); err != nil {
					return err
				}
			}

			store, err := app.OpenStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			lg := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
			users := service.NewUsers(store.Users, store.Users, app.PasswordCodec(cfg.Password, lg), lg)

			user, err := users.Create(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.ID, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "account email")
	cmd.Flags().StringVar(&params.Password, "password", "", "account password, read from stdin when empty")
	cmd.Flags().StringVar(&params.Name, "name", "", "first name")
	cmd.Flags().StringVar(&params.Surname, "surname", "", "last name")
	cmd.Flags().StringVar(&role, "role", "USER", "USER or ADMIN")
	cmd.Flags().StringSliceVar(&params.OwnedResourceIDs, "owned", nil, "owned resource ids")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newDeleteUserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <id>",
		Args:  cobra.ExactArgs(1),
		Short: "Soft-delete an account; its tokens stop authenticating",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := app.OpenStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
