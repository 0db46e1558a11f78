package requisition

import "time"

const (
	StatusCreated   = "created"
	StatusProcessed = "processed"
)

// MaxListLimit caps the admin requisition list.
const MaxListLimit = 200

// Item is one line of a staff submission.
type Item struct {
	ProductID int64   `json:"product_id" validate:"gt=0"`
	Qty       float64 `json:"qty" validate:"gt=0"`
}

type SubmitRequest struct {
	Items []Item `json:"items" validate:"required,dive"`
}

// Requisition is a row of the admin list.
type Requisition struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Status    string    `json:"status"`
	Positions int       `json:"positions"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is a requisition with the per-supplier orders it was split into.
type Detail struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	UserName  string       `json:"user_name"`
	CreatedAt time.Time    `json:"created_at"`
	Orders    []*OrderView `json:"orders"`
}

type SupplierRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type OrderView struct {
	OrderID  int64       `json:"order_id"`
	Supplier SupplierRef `json:"supplier"`
	Status   string      `json:"status"`
	Items    []*ItemView `json:"items"`
}

type ItemView struct {
	ItemID       int64   `json:"item_id"`
	ProductName  string  `json:"product_name"`
	Unit         string  `json:"unit"`
	QtyRequested float64 `json:"qty_requested"`
	QtyFinal     float64 `json:"qty_final"`
	Note         *string `json:"note"`
}
