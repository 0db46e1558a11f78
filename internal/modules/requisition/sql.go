package requisition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/barstock/internal/database"
	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/catalog"
	"github.com/georgemunganga/barstock/internal/modules/user"
	"github.com/georgemunganga/barstock/internal/notify"
)

type sqlRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, userID int64, items []Item) (int64, error) {
	var reqID int64
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO requisitions (user_id, status) VALUES ($1, $2) RETURNING id`,
			userID, StatusCreated).Scan(&reqID)
		if err != nil {
			return fmt.Errorf("insert requisition: %w", err)
		}

		orders := make(map[int64]int64)
		for _, it := range items {
			supplierID, err := catalog.ActiveSupplier(ctx, tx, it.ProductID)
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO requisition_items (requisition_id, product_id, qty_requested) VALUES ($1, $2, $3)`,
				reqID, it.ProductID, it.Qty); err != nil {
				return fmt.Errorf("insert requisition item: %w", err)
			}

			orderID, ok := orders[supplierID]
			if !ok {
				err := tx.QueryRowContext(ctx,
					`INSERT INTO orders (requisition_id, supplier_id, status) VALUES ($1, $2, $3) RETURNING id`,
					reqID, supplierID, "draft").Scan(&orderID)
				if err != nil {
					return fmt.Errorf("insert order: %w", err)
				}
				orders[supplierID] = orderID
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, qty_requested, qty_final, note) VALUES ($1, $2, $3, $4, NULL)`,
				orderID, it.ProductID, it.Qty, it.Qty); err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE requisitions SET status = $1 WHERE id = $2`, StatusProcessed, reqID); err != nil {
			return fmt.Errorf("mark requisition processed: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reqID, nil
}

func (r *sqlRepository) Summary(ctx context.Context, id int64) (*notify.Summary, error) {
	s := &notify.Summary{RequisitionID: id}
	var userID int64
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT r.user_id, u.name, r.created_at
		FROM requisitions r
		LEFT JOIN users u ON u.tg_user_id = r.user_id
		WHERE r.id = $1`, id).Scan(&userID, &name, database.Time(&s.CreatedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("requisition %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.Author = user.DisplayName(name.String, userID)

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, s.name, p.name, p.unit, oi.qty_requested
		FROM orders o
		JOIN suppliers s ON s.id = o.supplier_id
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		WHERE o.requisition_id = $1
		ORDER BY o.id, oi.id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lastOrder int64
	for rows.Next() {
		var orderID int64
		var supplierName string
		var line notify.Line
		if err := rows.Scan(&orderID, &supplierName, &line.Product, &line.Unit, &line.Qty); err != nil {
			return nil, err
		}
		if orderID != lastOrder {
			s.Groups = append(s.Groups, notify.Group{Supplier: supplierName})
			lastOrder = orderID
		}
		g := &s.Groups[len(s.Groups)-1]
		g.Lines = append(g.Lines, line)
	}
	return s, rows.Err()
}

func (r *sqlRepository) List(ctx context.Context, limit int) ([]*Requisition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, u.name, r.status, r.created_at,
		       (SELECT COUNT(*) FROM requisition_items ri WHERE ri.requisition_id = r.id)
		FROM requisitions r
		LEFT JOIN users u ON u.tg_user_id = r.user_id
		ORDER BY r.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*Requisition{}
	for rows.Next() {
		req := &Requisition{}
		var name sql.NullString
		if err := rows.Scan(&req.ID, &req.UserID, &name, &req.Status,
			database.Time(&req.CreatedAt), &req.Positions); err != nil {
			return nil, err
		}
		req.UserName = user.DisplayName(name.String, req.UserID)
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *sqlRepository) Get(ctx context.Context, id int64) (*Detail, error) {
	d := &Detail{ID: id, Orders: []*OrderView{}}
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT r.user_id, u.name, r.created_at
		FROM requisitions r
		LEFT JOIN users u ON u.tg_user_id = r.user_id
		WHERE r.id = $1`, id).Scan(&d.UserID, &name, database.Time(&d.CreatedAt))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("requisition %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	d.UserName = user.DisplayName(name.String, d.UserID)

	byID, err := r.loadOrders(ctx, d)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, id, byID); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *sqlRepository) loadOrders(ctx context.Context, d *Detail) (map[int64]*OrderView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, s.id, s.name, o.status
		FROM orders o
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.requisition_id = $1
		ORDER BY s.name`, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*OrderView)
	for rows.Next() {
		o := &OrderView{Items: []*ItemView{}}
		if err := rows.Scan(&o.OrderID, &o.Supplier.ID, &o.Supplier.Name, &o.Status); err != nil {
			return nil, err
		}
		d.Orders = append(d.Orders, o)
		byID[o.OrderID] = o
	}
	return byID, rows.Err()
}

func (r *sqlRepository) loadItems(ctx context.Context, reqID int64, byID map[int64]*OrderView) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, p.name, p.unit, oi.qty_requested, oi.qty_final, oi.note
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.requisition_id = $1
		ORDER BY p.name, oi.id`, reqID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		it := &ItemView{}
		var orderID int64
		var note sql.NullString
		if err := rows.Scan(&it.ItemID, &orderID, &it.ProductName, &it.Unit,
			&it.QtyRequested, &it.QtyFinal, &note); err != nil {
			return err
		}
		if note.Valid {
			it.Note = &note.String
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}
