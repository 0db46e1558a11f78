package order_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/barstock/internal/database/dbtest"
	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/order"
)

type fixture struct {
	db      *sql.DB
	svc     order.Service
	orderID int64
	itemID  int64
}

func setup(t *testing.T) fixture {
	db := dbtest.New(t)
	sid := dbtest.SeedSupplier(t, db, "Metro", true)
	pid := dbtest.SeedProduct(t, db, "Lime", "kg", sid, true)

	f := fixture{db: db, svc: order.NewService(order.NewSQLRepository(db))}
	var reqID int64
	require.NoError(t, db.QueryRow(`INSERT INTO requisitions (user_id) VALUES ($1) RETURNING id`, 5).Scan(&reqID))
	require.NoError(t, db.QueryRow(`INSERT INTO orders (requisition_id, supplier_id) VALUES ($1, $2) RETURNING id`, reqID, sid).Scan(&f.orderID))
	require.NoError(t, db.QueryRow(`INSERT INTO order_items (order_id, product_id, qty_requested, qty_final) VALUES ($1, $2, $3, $4) RETURNING id`,
		f.orderID, pid, 2.5, 2.5).Scan(&f.itemID))
	return f
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to order.Status
		want     bool
	}{
		{order.StatusDraft, order.StatusApproved, true},
		{order.StatusDraft, order.StatusOrdered, false},
		{order.StatusApproved, order.StatusDraft, true},
		{order.StatusApproved, order.StatusOrdered, true},
		{order.StatusOrdered, order.StatusReceived, true},
		{order.StatusOrdered, order.StatusDraft, false},
		{order.StatusReceived, order.StatusOrdered, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, order.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	o, err := f.svc.UpdateStatus(ctx, f.orderID, order.UpdateStatusRequest{Status: "Approved"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, o.Status)

	_, err = f.svc.UpdateStatus(ctx, f.orderID, order.UpdateStatusRequest{Status: "received"})
	require.ErrorIs(t, err, httpx.ErrUnprocessable)

	_, err = f.svc.UpdateStatus(ctx, f.orderID, order.UpdateStatusRequest{Status: "shipped"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = f.svc.UpdateStatus(ctx, 999, order.UpdateStatusRequest{Status: "approved"})
	require.ErrorIs(t, err, httpx.ErrNotFound)

	var stored string
	require.NoError(t, f.db.QueryRow(`SELECT status FROM orders WHERE id = $1`, f.orderID).Scan(&stored))
	assert.Equal(t, "approved", stored)
}

func TestAdjustItem(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	qty := 0.0
	note := " out of stock "
	it, err := f.svc.AdjustItem(ctx, f.orderID, f.itemID, order.AdjustItemRequest{QtyFinal: &qty, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, 0.0, it.QtyFinal)
	assert.Equal(t, 2.5, it.QtyRequested)
	require.NotNil(t, it.Note)
	assert.Equal(t, "out of stock", *it.Note)

	empty := ""
	it, err = f.svc.AdjustItem(ctx, f.orderID, f.itemID, order.AdjustItemRequest{Note: &empty})
	require.NoError(t, err)
	assert.Nil(t, it.Note)

	var stored sql.NullString
	require.NoError(t, f.db.QueryRow(`SELECT note FROM order_items WHERE id = $1`, f.itemID).Scan(&stored))
	assert.False(t, stored.Valid)
}

func TestAdjustItemErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	neg := -1.0
	_, err := f.svc.AdjustItem(ctx, f.orderID, f.itemID, order.AdjustItemRequest{QtyFinal: &neg})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = f.svc.AdjustItem(ctx, f.orderID, f.itemID, order.AdjustItemRequest{})
	require.ErrorIs(t, err, httpx.ErrValidation)

	qty := 1.0
	_, err = f.svc.AdjustItem(ctx, f.orderID+1, f.itemID, order.AdjustItemRequest{QtyFinal: &qty})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}
