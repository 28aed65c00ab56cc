package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go-todo-list/backend/internal/models"
)

// ErrTaskNotFound はタスクが見つからない場合のエラーです。
var ErrTaskNotFound = errors.New("task not found")

const taskColumns = "id, name, is_complete, user_id"

// TaskRepository は items テーブルを操作します。
type TaskRepository struct {
	DB *sql.DB
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// Create は新しいタスクを挿入し、採番されたIDをセットして返します。
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	result, err := r.DB.ExecContext(ctx,
		"INSERT INTO items (name, is_complete, user_id) VALUES (?, ?, ?)",
		t.Name, t.IsComplete, t.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("could not insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	t.ID = int(id)
	return t, nil
}

// FindAll はすべてのタスクをID順で取得します。
func (r *TaskRepository) FindAll(ctx context.Context) ([]*models.Task, error) {
	return r.query(ctx, "SELECT "+taskColumns+" FROM items ORDER BY id")
}

// FindByUserID は指定ユーザーが所有するタスクをID順で取得します。
func (r *TaskRepository) FindByUserID(ctx context.Context, userID int) ([]*models.Task, error) {
	return r.query(ctx, "SELECT "+taskColumns+" FROM items WHERE user_id = ? ORDER BY id", userID)
}

// FindByID は指定IDのタスクを取得します。
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	err := r.DB.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM items WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.IsComplete, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return &t, nil
}

// Update は名前と完了状態を上書きします。所有者は変更しません。
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE items SET name = ?, is_complete = ? WHERE id = ?",
		t.Name, t.IsComplete, t.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update task: %w", err)
	}
	return requireAffected(result)
}

// Delete は指定IDのタスクを削除します。
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete task: %w", err)
	}
	return requireAffected(result)
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Name, &t.IsComplete, &t.UserID); err != nil {
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
