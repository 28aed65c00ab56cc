package shell_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-list/backend/internal/client"
	"go-todo-list/backend/internal/shell"
	"go-todo-list/backend/testutil"
)

func newShell(t *testing.T) (*shell.Shell, *client.Client, *bytes.Buffer) {
	t.Helper()
	db := testutil.NewTestDB(t)
	srv := httptest.NewServer(testutil.SetupTestRouter(t, db, testutil.TestConfig()))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, &client.MemoryStore{}, client.WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	out := &bytes.Buffer{}
	return shell.New(c, out, func(string) (string, error) { return "pw1", nil }), c, out
}

func TestParseArgs(t *testing.T) {
	assert.Equal(t, []string{"add", "buy milk", "now"}, shell.ParseArgs(`add "buy milk"  now`))
	assert.Empty(t, shell.ParseArgs("   "))
}

func TestShell_Flow(t *testing.T) {
	ctx := context.Background()
	sh, c, out := newShell(t)

	assert.Equal(t, "todo> ", sh.Prompt())
	require.Error(t, sh.Execute(ctx, "list"), "task commands need a session")

	require.NoError(t, sh.Execute(ctx, "register alice"))
	assert.Contains(t, out.String(), "Registered successfully")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "login alice"))
	assert.True(t, c.LoggedIn())
	assert.Contains(t, out.String(), "Hello, alice")
	assert.Contains(t, out.String(), "(no tasks)")
	assert.Equal(t, "alice@todo> ", sh.Prompt())

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "add buy milk"))
	assert.Contains(t, out.String(), "[ ] 1  buy milk")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "done 1"))
	assert.Contains(t, out.String(), "[x] 1  buy milk")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "undo 1"))
	assert.Contains(t, out.String(), "[ ] 1  buy milk")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "rm 1"))
	assert.Contains(t, out.String(), "(no tasks)")

	out.Reset()
	require.NoError(t, sh.Execute(ctx, "rm 1"))
	assert.Contains(t, out.String(), "Error: Task not found")

	require.NoError(t, sh.Execute(ctx, "logout"))
	assert.False(t, c.LoggedIn())

	assert.ErrorIs(t, sh.Execute(ctx, "quit"), shell.ErrQuit)
}

func TestShell_LoginFailureShownInline(t *testing.T) {
	ctx := context.Background()
	sh, c, out := newShell(t)

	require.NoError(t, sh.Execute(ctx, "login ghost nope"))
	assert.False(t, c.LoggedIn())
	assert.Contains(t, out.String(), "Error: Invalid credentials")
}

func TestShell_UsageErrors(t *testing.T) {
	ctx := context.Background()
	sh, _, _ := newShell(t)

	require.NoError(t, sh.Execute(ctx, "register alice pw1"))
	require.NoError(t, sh.Execute(ctx, "login alice pw1"))

	assert.Error(t, sh.Execute(ctx, "add"))
	assert.Error(t, sh.Execute(ctx, "done"))
	assert.Error(t, sh.Execute(ctx, "rm abc"))
	assert.Error(t, sh.Execute(ctx, "frobnicate"))
	assert.Error(t, sh.Execute(ctx, "login alice pw1"))
}
