package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgemunganga/barstock/internal/database"
	"github.com/georgemunganga/barstock/internal/httpx"
)

type sqlRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a user repository backed by database/sql.
func NewSQLRepository(db *sql.DB) Repository {
	return &sqlRepository{db: db}
}

func (r *sqlRepository) Upsert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (tg_user_id, name, role, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tg_user_id) DO UPDATE
		SET name = excluded.name, role = excluded.role, updated_at = excluded.updated_at
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, u.ID, u.Name, string(u.Role), time.Now().UTC()).
		Scan(database.Time(&u.CreatedAt), database.Time(&u.UpdatedAt))
}

func (r *sqlRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT tg_user_id, name, role, created_at, updated_at
		FROM users
		WHERE tg_user_id = $1
	`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, httpx.ErrNotFound)
	}
	return u, err
}

func (r *sqlRepository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tg_user_id, name, role, created_at, updated_at
		FROM users
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(scan func(...any) error) (*User, error) {
	u := &User{}
	var role string
	if err := scan(&u.ID, &u.Name, &role, database.Time(&u.CreatedAt), database.Time(&u.UpdatedAt)); err != nil {
		return nil, err
	}
	u.Role = Role(role)
	return u, nil
}
