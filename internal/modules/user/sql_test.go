package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/barstock/internal/database/dbtest"
	"github.com/georgemunganga/barstock/internal/httpx"
	"github.com/georgemunganga/barstock/internal/modules/user"
)

func TestUpsertRefreshesNameAndRole(t *testing.T) {
	db := dbtest.New(t)
	repo := user.NewSQLRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &user.User{ID: 1001, Name: "Anna", Role: user.RoleAdmin}))
	require.NoError(t, repo.Upsert(ctx, &user.User{ID: 1001, Name: "Anna K", Role: user.RoleStaff}))

	got, err := repo.GetByID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "Anna K", got.Name)
	assert.Equal(t, user.RoleStaff, got.Role)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, 1, dbtest.Count(t, db, "users"))
}

func TestGetByIDNotFound(t *testing.T) {
	repo := user.NewSQLRepository(dbtest.New(t))
	_, err := repo.GetByID(context.Background(), 7)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestServiceListUsers(t *testing.T) {
	db := dbtest.New(t)
	repo := user.NewSQLRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &user.User{ID: 1, Name: "A", Role: user.RoleStaff}))
	require.NoError(t, repo.Upsert(ctx, &user.User{ID: 2, Name: "", Role: user.RoleStaff}))

	svc := user.NewService(repo)
	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.GetUser(ctx, 0)
	require.ErrorIs(t, err, httpx.ErrValidation)

	u, err := svc.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, u.Name)
	assert.Equal(t, "2", user.DisplayName(u.Name, u.ID))
	assert.Equal(t, "A", user.DisplayName("A", 1))
}
