package client_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-list/backend/internal/client"
	"go-todo-list/backend/internal/services"
	"go-todo-list/backend/testutil"
)

func TestNewSession_DecodesClaims(t *testing.T) {
	token, err := services.NewJWTService([]byte(testutil.TestSecret), time.Hour).GenerateToken(9, "alice")
	require.NoError(t, err)

	s, err := client.NewSession(token)
	require.NoError(t, err)
	assert.Equal(t, 9, s.UserID)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, token, s.Token)
}

func TestNewSession_DecodeFailureFallsBackToGuest(t *testing.T) {
	s, err := client.NewSession("garbage")
	assert.Error(t, err)
	require.NotNil(t, s)
	assert.Equal(t, client.GuestName, s.Username)
	assert.Equal(t, "garbage", s.Token)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "session.json")
	store := &client.FileStore{Path: path}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is not an error")
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
