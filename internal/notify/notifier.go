package notify

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Sender delivers a formatted message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Delivery outcomes recorded in the notifications counter.
const (
	ResultSent   = "sent"
	ResultFailed = "failed"
	ResultQueued = "queued"
)

func observe(results *prometheus.CounterVec, result string) {
	if results != nil {
		results.WithLabelValues(result).Inc()
	}
}

// Noop drops every notification. It is used when no bot token is configured.
type Noop struct {
	Logger *slog.Logger
}

func (n Noop) NotifyRequisition(_ context.Context, s Summary) {
	if n.Logger != nil {
		n.Logger.Debug("notification skipped", slog.Int64("requisition_id", s.RequisitionID))
	}
}
