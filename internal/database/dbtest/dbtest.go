// Package dbtest opens throwaway SQLite databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/barstock/internal/database"
)

// New returns a migrated SQLite database stored in t.TempDir().
func New(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "barstock.sqlite")
	db, err := database.Open(context.Background(), database.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))
	return db
}

// SeedSupplier inserts a supplier row and returns its id.
func SeedSupplier(t *testing.T, db *sql.DB, name string, active bool) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO suppliers (name, contact_note, active) VALUES ($1, $2, $3) RETURNING id`,
		name, "", active).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedProduct inserts a product row owned by supplierID and returns its id.
func SeedProduct(t *testing.T, db *sql.DB, name, unit string, supplierID int64, active bool) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO products (name, unit, category, supplier_id, active) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, unit, "Bar", supplierID, active).Scan(&id)
	require.NoError(t, err)
	return id
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
