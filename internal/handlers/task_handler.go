package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/internal/services"
)

// TaskHandler はタスク関連のハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
	logger      *slog.Logger
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// GetTasksHandler は認証ユーザーのタスク一覧を返します。
func (h *TaskHandler) GetTasksHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to fetch tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetAllTasksHandler は所有者に関係なく全タスクを返します。
func (h *TaskHandler) GetAllTasksHandler(c *gin.Context) {
	tasks, err := h.taskService.ListAllTasks(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTaskHandler は新しいタスクを作成します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTaskName) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Task name is required"})
			return
		}
		h.internalError(c, "Failed to save task", err)
		return
	}

	c.Header("Location", fmt.Sprintf("/items/%d", task.ID))
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskHandler はタスクの名前と完了状態を更新します。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	err := h.taskService.UpdateTask(c.Request.Context(), userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Task not found"})
		case errors.Is(err, services.ErrEmptyTaskName):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Task name is required"})
		default:
			h.internalError(c, "Failed to update task", err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTaskHandler はタスクを削除します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Task not found"})
			return
		}
		h.internalError(c, "Failed to delete task", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "error", err, "path", c.FullPath())
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msg})
}

func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid ID format"})
		return 0, false
	}
	return id, true
}
