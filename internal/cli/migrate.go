package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/todo/internal/services"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database migrations and exit",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer log.Sync()

			// an explicit migrate ignores RUN_MIGRATIONS
			cfg.Migrations.Enabled = true
			if err := services.Migrate(cfg, log); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}
