package requisition

import (
	"context"

	"github.com/georgemunganga/barstock/internal/notify"
)

// Repository defines the interface for requisition data storage.
type Repository interface {
	// Create stores the requisition and splits its items into one draft
	// order per supplier, atomically.
	Create(ctx context.Context, userID int64, items []Item) (int64, error)
	Summary(ctx context.Context, id int64) (*notify.Summary, error)
	List(ctx context.Context, limit int) ([]*Requisition, error)
	Get(ctx context.Context, id int64) (*Detail, error)
}
