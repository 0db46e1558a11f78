package supplier

import "context"

// Repository defines the interface for supplier data storage.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, id int64) (*Supplier, error)
	List(ctx context.Context) ([]*Supplier, error)
	Update(ctx context.Context, s *Supplier) error

	// Delete removes the supplier together with its products, its orders and
	// every requisition or order line that references those products.
	Delete(ctx context.Context, id int64) error
}
