package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mosacup/webboard/backend/internal/line"
	"github.com/mosacup/webboard/backend/internal/router"
	"github.com/mosacup/webboard/backend/internal/setup"
	"github.com/mosacup/webboard/backend/internal/storage/pg"
	"github.com/mosacup/webboard/shared/logger"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and webhook receiver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			deps, err := setup.SetupDependencies(ctx, cfg)
			if err != nil {
				return fmt.Errorf("setup dependencies: %w", err)
			}
			defer deps.Close()

			if migrate {
				if err := pg.ApplyMigrations(ctx, deps.Storage.DB()); err != nil {
					return err
				}
			}

			if deps.LineClient != nil && cfg.Public.Line.ProvisionRichMenu {
				// a missing menu only degrades the chat UX
				if _, err := line.ProvisionRichMenu(ctx, deps.LineClient, cfg.Public.Line.RichMenuName, cfg.Public.Line.RichMenuImage); err != nil {
					logger.Log.Error("failed to provision rich menu", "error", err)
				}
			}

			server := &http.Server{
				Addr:              cfg.Public.Addr,
				Handler:           router.New(deps),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Log.Info("server started", "addr", cfg.Public.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("listen: %w", err)
			case <-ctx.Done():
			}

			logger.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}
