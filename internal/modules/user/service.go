package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}
