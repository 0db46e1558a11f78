package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/barstock/internal/database"
	"github.com/georgemunganga/barstock/internal/httpx"
)

const selectProducts = `
	SELECT p.id, p.name, p.unit, p.category, p.supplier_id, s.name, p.active, p.created_at
	FROM products p
	JOIN suppliers s ON s.id = p.supplier_id`

type sqlRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (name, unit, category, supplier_id, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Unit, p.Category, p.SupplierID, p.Active).
		Scan(&p.ID, database.Time(&p.CreatedAt))
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("product %q: %w", p.Name, httpx.ErrConflict)
	}
	return err
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProducts+` WHERE p.id = $1`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return p, err
}

func (r *sqlRepository) ListActive(ctx context.Context) ([]*Product, error) {
	return r.list(ctx, selectProducts+` WHERE p.active AND s.active ORDER BY p.name`)
}

func (r *sqlRepository) ListAll(ctx context.Context) ([]*Product, error) {
	return r.list(ctx, selectProducts+` ORDER BY p.active DESC, p.name`)
}

func (r *sqlRepository) list(ctx context.Context, query string) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *sqlRepository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, unit = $2, category = $3, supplier_id = $4, active = $5
		WHERE id = $6`,
		p.Name, p.Unit, p.Category, p.SupplierID, p.Active, p.ID)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("product %q: %w", p.Name, httpx.ErrConflict)
	}
	if err != nil {
		return err
	}
	return requireAffected(res, p.ID)
}

// Delete removes the product and every order or requisition line that
// references it.
func (r *sqlRepository) Delete(ctx context.Context, id int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM requisition_items WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		return requireAffected(res, id)
	})
}

func (r *sqlRepository) GetActiveSupplier(ctx context.Context, productID int64) (int64, error) {
	return ActiveSupplier(ctx, r.db, productID)
}

// ActiveSupplier resolves the supplier of an active product. Products of a
// deactivated supplier are treated as inactive. It accepts a transaction so
// callers can resolve suppliers while writing orders.
func ActiveSupplier(ctx context.Context, q database.Querier, productID int64) (int64, error) {
	var supplierID int64
	err := q.QueryRowContext(ctx, `
		SELECT p.supplier_id
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.id = $1 AND p.active AND s.active`, productID).Scan(&supplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: product %d not found or inactive", httpx.ErrValidation, productID)
	}
	return supplierID, err
}

func scanProduct(scan func(...any) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.Name, &p.Unit, &p.Category, &p.SupplierID, &p.SupplierName,
		&p.Active, database.Time(&p.CreatedAt))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
