package database

import (
	"context"
	"database/sql"
	"fmt"
)

type seedProduct struct {
	name, unit, category, supplier string
}

var (
	demoSuppliers = []string{"Metro Cash & Carry", "Fresh Market", "Baltic Beverages"}

	demoProducts = []seedProduct{
		{"Lime", "kg", "Fruit", "Fresh Market"},
		{"Lemon", "kg", "Fruit", "Fresh Market"},
		{"Mint", "bunch", "Herbs", "Fresh Market"},
		{"Sugar syrup", "l", "Syrups", "Metro Cash & Carry"},
		{"Napkins", "pack", "Supplies", "Metro Cash & Carry"},
		{"Tonic water", "btl", "Soft drinks", "Baltic Beverages"},
		{"Lager", "keg", "Beer", "Baltic Beverages"},
	}
)

// Seed inserts a small demo catalog. Existing rows with the same names are
// left untouched, so running it twice is safe.
func Seed(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, name := range demoSuppliers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO suppliers (name) VALUES ($1)
				ON CONFLICT (name) DO NOTHING`, name); err != nil {
				return fmt.Errorf("seed supplier %q: %w", name, err)
			}
		}
		for _, p := range demoProducts {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (name, unit, category, supplier_id)
				VALUES ($1, $2, $3, (SELECT id FROM suppliers WHERE name = $4))
				ON CONFLICT (name) DO NOTHING`,
				p.name, p.unit, p.category, p.supplier); err != nil {
				return fmt.Errorf("seed product %q: %w", p.name, err)
			}
		}
		return nil
	})
}
