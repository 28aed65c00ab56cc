package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/internal/services"
)

// UserHandler は登録・ログインのハンドラーを管理します。
type UserHandler struct {
	authService *services.AuthService
	logger      *slog.Logger
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(authService *services.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{authService: authService, logger: logger}
}

// RegisterHandler はユーザー登録を処理します。
// ユーザー名の重複は 400 を返します。
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	_, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Username and password are required"})
		case errors.Is(err, repositories.ErrDuplicateUsername):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Username already exists"})
		default:
			h.logger.Error("failed to register user", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "User registered successfully"})
}

// LoginHandler はユーザーログインを処理し、成功した場合はJWTを返します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request payload"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
			return
		}
		h.logger.Error("failed to log in", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}
