package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/internal/services"
	"go-todo-list/backend/testutil"
)

func setupAuth(t *testing.T) (*services.AuthService, *services.JWTService, *repositories.UserRepository) {
	t.Helper()
	userRepo := repositories.NewUserRepository(testutil.NewTestDB(t))
	jwtService := services.NewJWTService([]byte(testutil.TestSecret), 7*24*time.Hour)
	return services.NewAuthService(userRepo, jwtService, bcrypt.MinCost, testutil.DiscardLogger()), jwtService, userRepo
}

func TestAuthService_RegisterStoresHash(t *testing.T) {
	ctx := context.Background()
	auth, _, userRepo := setupAuth(t)

	user, err := auth.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash, "hash must not be returned")

	stored, err := userRepo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.NoError(t, services.VerifyPassword(stored.PasswordHash, "pw1"))
}

func TestAuthService_RegisterTwice(t *testing.T) {
	ctx := context.Background()
	auth, _, userRepo := setupAuth(t)

	_, err := auth.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	before, err := userRepo.FindByUsername(ctx, "alice")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, repositories.ErrDuplicateUsername)

	after, err := userRepo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestAuthService_RegisterRequiresFields(t *testing.T) {
	auth, _, _ := setupAuth(t)

	_, err := auth.Register(context.Background(), "   ", "pw")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = auth.Register(context.Background(), "alice", "")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	auth, jwtService, userRepo := setupAuth(t)

	_, err := auth.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	stored, err := userRepo.FindByUsername(ctx, "alice")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody", "pw1")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("correct password", func(t *testing.T) {
		token, user, err := auth.Login(ctx, "alice", "pw1")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
	})
}
