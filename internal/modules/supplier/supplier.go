package supplier

import (
	"time"
)

// Supplier is a company the bar buys from. Every product belongs to exactly
// one supplier.
type Supplier struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContactNote string    `json:"contact_note"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSupplierRequest is the payload for adding a supplier.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	ContactNote string `json:"contact_note" validate:"max=1000"`
}

// UpdateSupplierRequest carries the fields to change; nil fields are kept.
type UpdateSupplierRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	ContactNote *string `json:"contact_note" validate:"omitempty,max=1000"`
	Active      *bool   `json:"active"`
}
