package catalog

import "time"

// DefaultCategory is assigned when a product is created without one.
const DefaultCategory = "General"

// Product is an orderable catalog item supplied by exactly one supplier.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Category     string    `json:"category"`
	SupplierID   int64     `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateProductRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Unit       string `json:"unit" validate:"required,max=50"`
	Category   string `json:"category" validate:"max=100"`
	SupplierID int64  `json:"supplier_id" validate:"required,gt=0"`
}

// UpdateProductRequest changes only the non-nil fields.
type UpdateProductRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=200"`
	Unit       *string `json:"unit" validate:"omitempty,max=50"`
	Category   *string `json:"category" validate:"omitempty,max=100"`
	SupplierID *int64  `json:"supplier_id" validate:"omitempty,gt=0"`
	Active     *bool   `json:"active"`
}
