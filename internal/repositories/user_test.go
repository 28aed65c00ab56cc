package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/testutil"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewUserRepository(testutil.NewTestDB(t))

	created, err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "hash-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "hash-1", found.PasswordHash)
	assert.False(t, found.CreatedAt.IsZero(), "created_at should be populated by the database")

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	exists, err := repo.Exists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewUserRepository(testutil.NewTestDB(t))

	_, err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "hash-1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "hash-2"})
	require.ErrorIs(t, err, repositories.ErrDuplicateUsername)

	// 既存ユーザーのハッシュは変わらないこと
	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", found.PasswordHash)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewUserRepository(testutil.NewTestDB(t))

	_, err := repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	_, err = repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	exists, err := repo.Exists(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}
