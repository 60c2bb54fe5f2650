package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/cinevault/cinevault/internal/service"
	"github.com/cinevault/cinevault/internal/store"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the administrator identity",
		Long:  "Inspect and rotate the single administrator identity directly against the store.",
	}

	cmd.AddCommand(newAdminRotateCmd())
	cmd.AddCommand(newAdminStatusCmd())

	return cmd
}

// ---------- admin rotate ----------

func newAdminRotateCmd() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate the administrator credentials",
		Example: `  cinevault admin rotate --username curator --password secret123
  cinevault admin rotate --username curator  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminRotate(username, password)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New admin username (current kept if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "New admin password (prompted if omitted)")

	return cmd
}

func runAdminRotate(username, password string) error {
	if password == "" {
		fmt.Print("New password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Println()
		password = string(pwBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		fmt.Println()

		if password != string(confirmBytes) {
			return fmt.Errorf("passwords do not match")
		}
	}

	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	admin, err := st.FirstAdmin(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no administrator exists yet; start the server once to bootstrap it")
		}
		return fmt.Errorf("load admin: %w", err)
	}

	if username != "" {
		admin.Username = service.NormalizeUsername(username)
	}
	hash, err := service.HashSecret(password)
	if err != nil {
		if errors.Is(err, service.ErrSecretTooShort) {
			return fmt.Errorf("password must be at least %d characters long", service.MinSecretLength)
		}
		return fmt.Errorf("hash password: %w", err)
	}
	admin.SecretHash = hash

	if err := st.UpdateAdmin(ctx, admin); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}

	fmt.Printf("Credentials rotated for %q. Existing tokens stay valid until they expire.\n", admin.Username)
	return nil
}

// ---------- admin status ----------

func newAdminStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an administrator identity exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			admin, err := st.FirstAdmin(ctx)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					fmt.Fprintln(cmd.OutOrStdout(), "No administrator exists.")
					return nil
				}
				return fmt.Errorf("load admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Administrator: %s (created %s)\n",
				admin.Username, admin.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
			return nil
		},
	}
}

// openStore connects to the configured database for one-shot CLI operations.
func openStore(ctx context.Context) (*store.Store, error) {
	dsn := viper.GetString("database.url")
	if dsn == "" {
		return nil, fmt.Errorf("database.url is required (set CINEVAULT_DATABASE_URL or database.url in cinevault.yaml)")
	}
	st, err := store.Open(ctx, store.DefaultConfig(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	return st, nil
}
