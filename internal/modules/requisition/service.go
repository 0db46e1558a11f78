package requisition

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/notify"
)

// Notifier receives the summary of every committed requisition. It must
// return promptly; delivery happens off the request path.
type Notifier interface {
	NotifyRequisition(ctx context.Context, s notify.Summary)
}

type Service interface {
	// Submit validates the items, stores the requisition with its
	// per-supplier orders and triggers the notification.
	Submit(ctx context.Context, userID int64, items []Item) (int64, error)
	List(ctx context.Context, limit int) ([]*Requisition, error)
	Get(ctx context.Context, id int64) (*Detail, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	created  prometheus.Counter
}

// NewService wires the requisition service. created may be nil.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger, created prometheus.Counter) Service {
	return &service{repo: repo, notifier: notifier, logger: logger, created: created}
}

func (s *service) Submit(ctx context.Context, userID int64, items []Item) (int64, error) {
	if err := validateItems(items); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, userID, items)
	if err != nil {
		return 0, err
	}
	if s.created != nil {
		s.created.Inc()
	}
	s.logger.Info("requisition created",
		slog.Int64("requisition_id", id),
		slog.Int64("user_id", userID),
		slog.Int("items", len(items)))

	s.notify(ctx, id)
	return id, nil
}

func (s *service) notify(ctx context.Context, id int64) {
	if s.notifier == nil {
		return
	}
	// Committed already: a cancelled request must not drop the notification.
	summary, err := s.repo.Summary(context.WithoutCancel(ctx), id)
	if err != nil {
		s.logger.Warn("requisition summary unavailable",
			slog.Int64("requisition_id", id), slog.Any("error", err))
		return
	}
	s.notifier.NotifyRequisition(ctx, *summary)
}

func (s *service) List(ctx context.Context, limit int) ([]*Requisition, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(ctx, limit)
}

func (s *service) Get(ctx context.Context, id int64) (*Detail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid requisition id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items required", httpx.ErrValidation)
	}
	seen := make(map[int64]struct{}, len(items))
	for i, it := range items {
		if it.ProductID <= 0 {
			return fmt.Errorf("%w: item %d: invalid product_id", httpx.ErrValidation, i)
		}
		if !(it.Qty > 0) || math.IsInf(it.Qty, 0) {
			return fmt.Errorf("%w: item %d: qty must be positive", httpx.ErrValidation, i)
		}
		if _, dup := seen[it.ProductID]; dup {
			return fmt.Errorf("%w: product %d listed twice", httpx.ErrValidation, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
	}
	return nil
}
