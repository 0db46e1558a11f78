package main

import (
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/georgemunganga/barstock/internal/app"
	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/notify"
	"github.com/georgemunganga/barstock/internal/observability"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued requisition notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := app.NewLogger(cfg)
		if cfg.RedisAddr == "" {
			return errors.New("worker: REDIS_ADDR is required")
		}
		sender, err := app.NewSender(cfg)
		if err != nil {
			return err
		}
		metrics := observability.NewMetrics()

		srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
			Concurrency: 5,
			Queues:      map[string]int{notify.QueueDefault: 1},
		})
		mux := asynq.NewServeMux()
		mux.HandleFunc(notify.TaskRequisition, notify.HandleRequisitionTask(sender, logger, metrics.Notifications))

		errCh := make(chan error, 1)
		go func() {
			logger.Info("notification worker started", slog.String("redis", cfg.RedisAddr))
			errCh <- srv.Run(mux)
		}()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			srv.Shutdown()
			logger.Info("notification worker stopped")
			return nil
		}
	},
}
