package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/barstock/internal/database"
	"github.com/georgemunganga/barstock/internal/httpx"
)

type sqlRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, requisition_id, supplier_id, status, created_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.RequisitionID, &o.SupplierID, &o.Status, database.Time(&o.CreatedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *sqlRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`, to, id, from)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: order %d changed concurrently", httpx.ErrConflict, id)
	}
	return nil
}

func (r *sqlRepository) GetItem(ctx context.Context, orderID, itemID int64) (*Item, error) {
	it := &Item{}
	var note sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, product_id, qty_requested, qty_final, note
		FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID).
		Scan(&it.ID, &it.OrderID, &it.ProductID, &it.QtyRequested, &it.QtyFinal, &note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order item %d in order %d: %w", itemID, orderID, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if note.Valid {
		it.Note = &note.String
	}
	return it, nil
}

func (r *sqlRepository) UpdateItem(ctx context.Context, it *Item) error {
	var note sql.NullString
	if it.Note != nil {
		note = sql.NullString{String: *it.Note, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE order_items SET qty_final = $1, note = $2
		WHERE id = $3 AND order_id = $4`,
		it.QtyFinal, note, it.ID, it.OrderID)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	return nil
}
