package supplier

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

// NewSQLRepository creates a supplier repository backed by database/sql.
func NewSQLRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Create(ctx context.Context, s *Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact_note, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, s.Name, s.ContactNote, s.Active).
		Scan(&s.ID, database.Time(&s.CreatedAt))
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("supplier %q: %w", s.Name, httpx.ErrConflict)
	}
	return err
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*Supplier, error) {
	query := `
		SELECT id, name, contact_note, active, created_at
		FROM suppliers
		WHERE id = $1
	`
	s, err := scanSupplier(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("supplier %d: %w", id, httpx.ErrNotFound)
	}
	return s, err
}

func (r *sqlRepository) List(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, contact_note, active, created_at
		FROM suppliers
		ORDER BY active DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := []*Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows.Scan)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *sqlRepository) Update(ctx context.Context, s *Supplier) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $1, contact_note = $2, active = $3
		WHERE id = $4`,
		s.Name, s.ContactNote, s.Active, s.ID)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("supplier %q: %w", s.Name, httpx.ErrConflict)
	}
	if err != nil {
		return err
	}
	return requireAffected(res, s.ID)
}

func (r *sqlRepository) Delete(ctx context.Context, id int64) error {
	cascade := []string{
		`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE supplier_id = $1)`,
		`DELETE FROM orders WHERE supplier_id = $1`,
		`DELETE FROM requisition_items WHERE product_id IN (SELECT id FROM products WHERE supplier_id = $1)`,
		`DELETE FROM order_items WHERE product_id IN (SELECT id FROM products WHERE supplier_id = $1)`,
		`DELETE FROM products WHERE supplier_id = $1`,
	}
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range cascade {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("delete supplier %d: %w", id, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete supplier %d: %w", id, err)
		}
		return requireAffected(res, id)
	})
}

func scanSupplier(scan func(...any) error) (*Supplier, error) {
	s := &Supplier{}
	if err := scan(&s.ID, &s.Name, &s.ContactNote, &s.Active, database.Time(&s.CreatedAt)); err != nil {
		return nil, err
	}
	return s, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("supplier %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
