package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/internal/services"
	"go-todo-list/backend/testutil"
)

func setupTasks(t *testing.T) (*services.TaskService, int, int) {
	t.Helper()
	db := testutil.NewTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	alice := testutil.CreateTestUser(t, userRepo, "alice", "pw1")
	bob := testutil.CreateTestUser(t, userRepo, "bob", "pw2")
	return services.NewTaskService(repositories.NewTaskRepository(db)), alice.ID, bob.ID
}

func strPtr(s string) *string { return &s }

func TestTaskService_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := setupTasks(t)

	task, err := svc.CreateTask(ctx, alice, "  buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Name)
	assert.False(t, task.IsComplete)
	assert.Equal(t, alice, task.UserID)

	tasks, err := svc.ListTasks(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	others, err := svc.ListTasks(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, others)

	require.NoError(t, svc.DeleteTask(ctx, alice, task.ID))
	tasks, err = svc.ListTasks(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_CreateRejectsEmptyName(t *testing.T) {
	svc, alice, _ := setupTasks(t)

	_, err := svc.CreateTask(context.Background(), alice, " \t")
	assert.ErrorIs(t, err, services.ErrEmptyTaskName)
}

func TestTaskService_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := setupTasks(t)
	task, err := svc.CreateTask(ctx, alice, "buy milk")
	require.NoError(t, err)

	for _, want := range []bool{true, false, true} {
		require.NoError(t, svc.UpdateTask(ctx, alice, task.ID, models.UpdateTaskRequest{IsComplete: want}))
		tasks, err := svc.ListTasks(ctx, alice)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, want, tasks[0].IsComplete)
		assert.Equal(t, "buy milk", tasks[0].Name, "name is kept when omitted")
	}
}

func TestTaskService_UpdateName(t *testing.T) {
	ctx := context.Background()
	svc, alice, _ := setupTasks(t)
	task, err := svc.CreateTask(ctx, alice, "buy milk")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTask(ctx, alice, task.ID, models.UpdateTaskRequest{Name: strPtr("buy oat milk")}))
	tasks, err := svc.ListTasks(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", tasks[0].Name)

	err = svc.UpdateTask(ctx, alice, task.ID, models.UpdateTaskRequest{Name: strPtr("")})
	assert.ErrorIs(t, err, services.ErrEmptyTaskName)
}

func TestTaskService_OwnershipAndMissing(t *testing.T) {
	ctx := context.Background()
	svc, alice, bob := setupTasks(t)
	task, err := svc.CreateTask(ctx, alice, "buy milk")
	require.NoError(t, err)

	t.Run("other user cannot update", func(t *testing.T) {
		err := svc.UpdateTask(ctx, bob, task.ID, models.UpdateTaskRequest{IsComplete: true})
		assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		err := svc.DeleteTask(ctx, bob, task.ID)
		assert.ErrorIs(t, err, repositories.ErrTaskNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		assert.ErrorIs(t, svc.UpdateTask(ctx, alice, 999, models.UpdateTaskRequest{}), repositories.ErrTaskNotFound)
		assert.ErrorIs(t, svc.DeleteTask(ctx, alice, 999), repositories.ErrTaskNotFound)
	})

	tasks, err := svc.ListTasks(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].IsComplete, "store must be unchanged")

	all, err := svc.ListAllTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
