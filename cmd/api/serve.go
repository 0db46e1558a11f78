package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/barstock/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, logger, db, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.DevAllowUnsafe {
			logger.Warn("DEV_ALLOW_UNSAFE is on: requests without initData act as the dev user",
				slog.Int64("dev_user_id", cfg.DevUserID))
		}
		if cfg.BotToken == "" && !cfg.DevAllowUnsafe {
			logger.Warn("BOT_TOKEN is empty: every Telegram request will be rejected")
		}

		application, err := app.New(cfg, db, logger, nil)
		if err != nil {
			return err
		}
		defer application.Close()

		srv := &http.Server{
			Addr:              cfg.AppAddr,
			Handler:           application.Handler,
			ReadTimeout:       cfg.AppReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.AppWriteTimeout,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return err
		}
		return nil
	},
}
