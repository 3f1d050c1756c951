package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/services"
)

// UserAddOptions holds flags for the useradd command.
type UserAddOptions struct {
	*RootOptions
	Email         string
	Admin         bool
	PasswordStdin bool
}

// NewUserAddCommand creates the useradd command.
func NewUserAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "useradd <username>",
		Short: "Create a user, optionally with the ADMIN role",
		Long: `Create a user with the USER role. --admin also grants ADMIN.

The password is prompted for on the terminal, or read from the first line
of standard input with --password-stdin.

Example:
  todo-server useradd root --email root@example.com --admin
  echo "$PW" | todo-server useradd alice --email alice@example.com --password-stdin`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	cmd.Flags().BoolVar(&opts.Admin, "admin", false, "grant the ADMIN role")
	cmd.Flags().BoolVar(&opts.PasswordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runUserAdd(cmd *cobra.Command, opts *UserAddOptions, username string) error {
	password, err := readPassword(cmd, opts.PasswordStdin)
	if err != nil {
		return err
	}

	cfg, log, err := setup(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := services.OpenStorage(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	var extra []domain.Role
	if opts.Admin {
		extra = append(extra, domain.RoleAdmin)
	}

	container := services.NewContainer(cfg, store, log)
	id, err := container.Users.CreateUser(cmd.Context(), username, opts.Email, password, extra...)
	if err != nil {
		if msg := domain.PublicMessage(err); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %q with id %d\n", username, id)
	return nil
}

func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}
