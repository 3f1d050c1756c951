package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/services"
	"github.com/fastygo/todo/internal/services/lifecycle"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service until SIGINT or SIGTERM.

Migrations run first when RUN_MIGRATIONS is set, and stored plaintext
passwords are hashed when REHASH_PASSWORDS_ON_START is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, log, err := setup(opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer log.Sync()

	appCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, log)
	manager.Listen(appCtx, cancel)

	store, err := services.OpenStorage(appCtx, cfg, log)
	if err != nil {
		return err
	}
	manager.Register("storage", func(context.Context) error {
		store.Close()
		return nil
	})

	container := services.NewContainer(cfg, store, log)

	if cfg.Security.RehashOnStart {
		if _, err := container.Auth.RehashLegacyPasswords(appCtx); err != nil {
			_ = manager.Shutdown(context.Background())
			return err
		}
	}

	container.Monitor.Start()
	manager.Register("monitor", func(context.Context) error {
		container.Monitor.Stop()
		return nil
	})

	server := &fasthttp.Server{
		Handler:      container.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", store.Driver))
		serveErr <- server.ListenAndServe(cfg.Address())
	}()
	manager.Register("http_server", server.ShutdownWithContext)

	var runErr error
	select {
	case <-appCtx.Done():
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error("server crashed", zap.Error(runErr))
		}
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		log.Error("graceful shutdown error", zap.Error(err))
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
