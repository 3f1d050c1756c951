package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/todo/internal/services"
)

// NewRehashCommand creates the rehash-passwords command.
func NewRehashCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rehash-passwords",
		Short: "Hash stored passwords that are still plaintext",
		Long: `Replace every stored password that is not a bcrypt hash with its bcrypt hash.

Users imported with plaintext passwords cannot log in until this has run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Sync()

			store, err := services.OpenStorage(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			container := services.NewContainer(cfg, store, log)
			n, err := container.Auth.RehashLegacyPasswords(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rehashed %d password(s)\n", n)
			return nil
		},
	}
}
