package catalog

import "context"

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	// ListActive returns active products ordered by name.
	ListActive(ctx context.Context) ([]*Product, error)
	// ListAll returns every product, active ones first.
	ListAll(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	GetActiveSupplier(ctx context.Context, productID int64) (int64, error)
}
