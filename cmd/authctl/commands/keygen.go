package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/storeauth/internal/app"
	"github.com/dtroode/storeauth/internal/config"
	"github.com/dtroode/storeauth/internal/keys"
	"github.com/dtroode/storeauth/internal/token"
)

var envNames = map[string]string{
	"access_private":  "ACCESS_TOKEN_SECRET_PRIVATE",
	"access_public":   "ACCESS_TOKEN_SECRET_PUBLIC",
	"refresh_private": "REFRESH_TOKEN_SECRET_PRIVATE",
	"refresh_public":  "REFRESH_TOKEN_SECRET_PUBLIC",
}

func newKeygenCommand() *cobra.Command {
	var (
		outDir string
		upload bool
		force  bool
		asEnv  bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Args:  cobra.NoArgs,
		Short: "Generate the P-384 access and P-521 refresh key pairs",
		Long: `Generate fresh signing keys. Keys are written as PEM files to --out,
uploaded to the MinIO bucket with --upload, or printed as environment
variables with --env. Existing keys are kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if outDir == "" && !upload && !asEnv {
				return fmt.Errorf("one of --out, --upload or --env is required")
			}

			set, err := token.GenerateKeySet()
			if err != nil {
				return err
			}
			encoded, err := keys.Encode(set)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := writePEMFiles(outDir, encoded, force); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "keys written to %s\n", outDir)
			}

			if upload {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				st, err := app.DialStorage(cmd.Context(), cfg.Storage)
				if err != nil {
					return err
				}
				refs := keys.DefaultObjectRefs
				if cfg.Keys.Source == config.KeysSourceMinio {
					refs = objectRefs(cfg.Keys.AccessPrivate, cfg.Keys.AccessPublic, cfg.Keys.RefreshPrivate, cfg.Keys.RefreshPublic)
				}
				if err := keys.Publish(cmd.Context(), st, refs, set, force); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "keys uploaded to bucket %s\n", cfg.Storage.Bucket)
			}

			if asEnv {
				for _, name := range []string{"access_private", "access_public", "refresh_private", "refresh_public"} {
					value := strings.ReplaceAll(strings.TrimSpace(string(encoded[name])), "\n", `\n`)
					fmt.Fprintf(cmd.OutOrStdout(), "%s=\"%s\"\n", envNames[name], value)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory to write PEM files to")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload keys to the configured MinIO bucket")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing keys")
	cmd.Flags().BoolVar(&asEnv, "env", false, "print keys as environment variables")

	return cmd
}

// objectRefs uses the configured object keys, falling back to the defaults.
func objectRefs(accessPriv, accessPub, refreshPriv, refreshPub string) keys.Refs {
	refs := keys.DefaultObjectRefs
	if accessPriv != "" {
		refs.AccessPrivate = accessPriv
	}
	if accessPub != "" {
		refs.AccessPublic = accessPub
	}
	if refreshPriv != "" {
		refs.RefreshPrivate = refreshPriv
	}
	if refreshPub != "" {
		refs.RefreshPublic = refreshPub
	}
	return refs
}

func writePEMFiles(dir string, encoded map[string][]byte, force bool) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	for name, data := range encoded {
		perm := os.FileMode(0o644)
		if strings.HasSuffix(name, "_private") {
			perm = 0o600
		}
		f, err := os.OpenFile(filepath.Join(dir, name+".pem"), flags, perm)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		_, werr := f.Write(data)
		cerr := f.Close()
		if werr != nil {
			return werr
		}
		if cerr != nil {
			return cerr
		}
	}
	return nil
}
