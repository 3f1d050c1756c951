package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/services"
)

// NewGrantCommand creates the grant command.
func NewGrantCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "grant <username> <role>",
		Short: "Grant USER or ADMIN to an existing user",
		Example: `  todo-server grant alice ADMIN
  todo-server grant bob ROLE_USER`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := domain.ParseRole(args[1])
			if !ok {
				return fmt.Errorf("unknown role %q: must be USER or ADMIN", args[1])
			}

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
			if err := container.Users.GrantRole(cmd.Context(), args[0], role); err != nil {
				if msg := domain.PublicMessage(err); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s to %q\n", role, args[0])
			return nil
		},
	}
}
