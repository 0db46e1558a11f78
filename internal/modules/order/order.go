package order

import "time"

// Status is the lifecycle state of a per-supplier order.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusOrdered  Status = "ordered"
	StatusReceived Status = "received"
)

// Order groups the lines of one requisition that go to one supplier.
type Order struct {
	ID            int64     `json:"id"`
	RequisitionID int64     `json:"requisition_id"`
	SupplierID    int64     `json:"supplier_id"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Item is a single order line. QtyFinal starts equal to QtyRequested and is
// adjusted by admins.
type Item struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id"`
	ProductID    int64   `json:"product_id"`
	QtyRequested float64 `json:"qty_requested"`
	QtyFinal     float64 `json:"qty_final"`
	Note         *string `json:"note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdjustItemRequest changes the final quantity and/or the note of a line. An
// empty note clears it.
type AdjustItemRequest struct {
	QtyFinal *float64 `json:"qty_final" validate:"omitempty,gte=0"`
	Note     *string  `json:"note" validate:"omitempty,max=500"`
}
