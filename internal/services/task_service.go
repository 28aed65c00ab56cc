package services

import (
	"context"
	"errors"
	"strings"

	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
)

// ErrEmptyTaskName はタスク名が空の場合のエラーです。
var ErrEmptyTaskName = errors.New("task name is required")

// TaskService はタスク関連のビジネスロジックを扱います。
// 取得・更新・削除はすべて呼び出しユーザーの所有タスクに限定されます。
type TaskService struct {
	taskRepo *repositories.TaskRepository
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo *repositories.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// ListTasks はユーザーが所有するタスクを返します。
func (s *TaskService) ListTasks(ctx context.Context, userID int) ([]*models.Task, error) {
	return s.taskRepo.FindByUserID(ctx, userID)
}

// ListAllTasks は所有者に関係なくすべてのタスクを返します。
func (s *TaskService) ListAllTasks(ctx context.Context) ([]*models.Task, error) {
	return s.taskRepo.FindAll(ctx)
}

// CreateTask は未完了の新しいタスクを作成します。
func (s *TaskService) CreateTask(ctx context.Context, userID int, name string) (*models.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTaskName
	}
	return s.taskRepo.Create(ctx, &models.Task{Name: name, IsComplete: false, UserID: userID})
}

// UpdateTask は名前 (指定時のみ) と完了状態を上書きします。
// 他ユーザーのタスクは存在しないものとして ErrTaskNotFound を返します。
func (s *TaskService) UpdateTask(ctx context.Context, userID, id int, req models.UpdateTaskRequest) error {
	task, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return ErrEmptyTaskName
		}
		task.Name = name
	}
	task.IsComplete = req.IsComplete

	return s.taskRepo.Update(ctx, task)
}

// DeleteTask はユーザーが所有するタスクを削除します。
func (s *TaskService) DeleteTask(ctx context.Context, userID, id int) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}

func (s *TaskService) owned(ctx context.Context, userID, id int) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, repositories.ErrTaskNotFound
	}
	return task, nil
}
