// Package cli implements the todo-server command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
}

// NewRootCommand creates the root command. Without a subcommand it serves HTTP.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "todo-server",
		Short: "Multi-user to-do list service",
		Long: `A REST service where users manage their own tasks and administrators
manage users. Authentication is HTTP basic; storage is PostgreSQL or SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewRehashCommand(opts))
	cmd.AddCommand(NewUserAddCommand(opts))
	cmd.AddCommand(NewGrantCommand(opts))

	return cmd
}

// setup loads configuration and builds the logger shared by every command.
func setup(opts *RootOptions, out io.Writer) (*config.Config, *zap.Logger, error) {
	if opts.ConfigFile != "" {
		if err := os.Setenv("CONFIG_FILE", opts.ConfigFile); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   out,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger error: %w", err)
	}
	log = log.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Environment))
	return cfg, log, nil
}
