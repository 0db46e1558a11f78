package order

import "context"

// Repository defines the interface for order data storage.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	// UpdateStatus moves the order from one status to another. It fails with
	// a conflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
	GetItem(ctx context.Context, orderID, itemID int64) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
}
