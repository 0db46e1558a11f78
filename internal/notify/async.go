package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Async formats a summary and sends it on a separate goroutine so the caller
// never waits for Telegram.
type Async struct {
	sender  Sender
	logger  *slog.Logger
	timeout time.Duration
	results *prometheus.CounterVec
	wg      sync.WaitGroup
}

// NewAsync wraps sender. results may be nil.
func NewAsync(sender Sender, logger *slog.Logger, timeout time.Duration, results *prometheus.CounterVec) *Async {
	return &Async{sender: sender, logger: logger, timeout: timeout, results: results}
}

func (a *Async) NotifyRequisition(ctx context.Context, s Summary) {
	text := FormatRequisition(s)
	delivery := uuid.NewString()
	ctx = context.WithoutCancel(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()

		log := a.logger.With(
			slog.String("delivery_id", delivery),
			slog.Int64("requisition_id", s.RequisitionID))
		if err := a.sender.Send(ctx, text); err != nil {
			observe(a.results, ResultFailed)
			log.Warn("telegram notification failed", slog.Any("error", err))
			return
		}
		observe(a.results, ResultSent)
		log.Info("telegram notification sent")
	}()
}

// Wait blocks until in-flight deliveries finish.
func (a *Async) Wait() {
	a.wg.Wait()
}
