// Package testutil はハンドラー・リポジトリのテストで共有するセットアップを提供します。
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-todo-list/backend/internal/config"
	"go-todo-list/backend/internal/database"
	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/internal/routes"
	"go-todo-list/backend/internal/services"
)

// テストで使う既定ユーザー
const (
	NormalUsername = "normal_user"
	NormalPassword = "password123"
	OtherUsername  = "other_user"
	OtherPassword  = "password456"

	TestSecret = "test-secret-key-that-is-long-enough-0123"
)

// TestConfig はテスト用の設定を返します。bcrypt コストは最小にしています。
func TestConfig() *config.Config {
	return &config.Config{
		DBDriver:       config.DriverSQLite,
		SQLitePath:     ":memory:",
		JWTSecret:      []byte(TestSecret),
		TokenTTL:       7 * 24 * time.Hour,
		BcryptCost:     bcrypt.MinCost,
		CORSOrigins:    []string{"*"},
		ExposeAllItems: true,
	}
}

// DiscardLogger は出力を捨てるロガーを返します。
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB はスキーマ作成済みのインメモリ SQLite を開きます。
// :memory: は接続ごとに別DBになるため接続数を1に固定します。
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(config.DriverSQLite, database.SQLiteDSN(":memory:"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db, config.DriverSQLite))
	return db
}

// SetupTestDB はテスト用DBを作成し、既定ユーザーを投入し、本番と同じルーターを返します。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TaskRepository, *repositories.UserRepository) {
	t.Helper()
	db := NewTestDB(t)

	userRepo := repositories.NewUserRepository(db)
	CreateTestUser(t, userRepo, NormalUsername, NormalPassword)
	CreateTestUser(t, userRepo, OtherUsername, OtherPassword)

	router := SetupTestRouter(t, db, TestConfig())
	return db, router, repositories.NewTaskRepository(db), userRepo
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, db *sql.DB, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db, cfg, DiscardLogger())
}

// CreateTestUser はリポジトリに直接ユーザーを作成します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, username, password string) *models.User {
	t.Helper()
	hashed, err := services.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	created, err := userRepo.Create(context.Background(), &models.User{Username: username, PasswordHash: hashed})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	return created
}

// CreateTestTask はAPI経由でタスクを作成します。
func CreateTestTask(t *testing.T, router *gin.Engine, token, name string) *models.Task {
	t.Helper()
	body, _ := json.Marshal(models.CreateTaskRequest{Name: name})

	req, _ := http.NewRequest(http.MethodPost, "/items", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "タスク作成に失敗しました: %s", resp.Body.String())

	var created models.Task
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	return &created
}

// LoginAndGetToken は /login を呼び、トークンを返します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, username, password string) (string, error) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"Username": username, "Password": password})

	req, _ := http.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes models.LoginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if loginRes.Token == "" {
		return "", errors.New("token not found in login response")
	}
	return loginRes.Token, nil
}

// DoJSON はJSONボディ付きのリクエストをルーターに送り、レスポンスを返します。
// token が空ならAuthorizationヘッダーを付けません。
func DoJSON(router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body = bytes.NewBufferString(p)
		default:
			b, _ := json.Marshal(p)
			body = bytes.NewBuffer(b)
		}
	}
	req, _ := http.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}
