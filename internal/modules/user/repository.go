package user

import "context"

// Repository defines the interface for user data storage.
type Repository interface {
	// Upsert inserts the user or refreshes name and role of an existing one.
	Upsert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
