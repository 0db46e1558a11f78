package app

import (
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/georgemunganga/barstock/internal/config"
	"github.com/georgemunganga/barstock/internal/modules/requisition"
	"github.com/georgemunganga/barstock/internal/notify"
	"github.com/georgemunganga/barstock/internal/observability"
)

// NewSender builds the Telegram sender from configuration.
func NewSender(cfg *config.Config) (*notify.Telegram, error) {
	return notify.NewTelegram(cfg.BotToken, cfg.TelegramAPIEndpoint, cfg.NotifyChatIDs,
		cfg.NotifyRetries, cfg.NotifyTimeout)
}

// NewNotifier picks how requisition summaries are delivered: dropped without
// a bot token, queued through asynq when Redis is configured, and sent from
// a goroutine otherwise. The returned func drains or closes the notifier.
func NewNotifier(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (requisition.Notifier, func()) {
	noop := notify.Noop{Logger: logger}
	if cfg.BotToken == "" {
		logger.Warn("BOT_TOKEN is empty, requisition notifications are disabled")
		return noop, func() {}
	}

	if cfg.RedisAddr != "" {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		logger.Info("requisition notifications are queued", slog.String("redis", cfg.RedisAddr))
		q := notify.NewQueue(client, logger, int(cfg.NotifyRetries), metrics.Notifications)
		return q, func() {
			if err := client.Close(); err != nil {
				logger.Warn("close asynq client", slog.Any("error", err))
			}
		}
	}

	sender, err := NewSender(cfg)
	if err != nil {
		logger.Warn("requisition notifications are disabled", slog.Any("error", err))
		return noop, func() {}
	}
	async := notify.NewAsync(sender, logger, cfg.NotifyTimeout, metrics.Notifications)
	return async, async.Wait
}
