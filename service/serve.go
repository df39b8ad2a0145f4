package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/app/routes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long: `Run the Yatube web server until SIGINT or SIGTERM.

Examples:
  yatube serve                      # listen on the configured address
  yatube serve --addr :8080         # override the address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			defer env.logger.Sync()
			if addr != "" {
				env.cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, env)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (overrides config)")
	return cmd
}

func serve(ctx context.Context, env *environment) error {
	if env.cfg.DevSecret {
		env.logger.Warn("using the built-in development secret key; set YATUBE_SECRET_KEY in production")
	}

	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	app, err := routes.NewApp(store, env.cfg, env.logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              env.cfg.Addr,
		Handler:           routes.SetupRoutes(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	env.logger.Info("starting yatube", zap.String("addr", ln.Addr().String()), zap.String("data_dir", env.cfg.DataDir))
	return runServer(ctx, srv, ln, env.logger)
}

// runServer serves on ln until ctx is done, then shuts down gracefully,
// letting in-flight requests finish within shutdownTimeout.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
