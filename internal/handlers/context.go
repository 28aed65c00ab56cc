package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-todo-list/backend/internal/models"
)

// 認証ミドルウェアが gin.Context にセットするキー
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// currentUserID は認証ミドルウェアがセットしたユーザーIDを取り出します。
// 取り出せない場合はレスポンスを書き込み、false を返します。
func currentUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "User ID not found in context"})
		return 0, false
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}
