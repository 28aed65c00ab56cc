// Package routes はルーティングとミドルウェアを提供します。
package routes

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-todo-list/backend/internal/config"
	"go-todo-list/backend/internal/handlers"
	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
	"go-todo-list/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(db *sql.DB, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	// リポジトリ
	taskRepo := repositories.NewTaskRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, jwtService, cfg.BcryptCost, logger)
	taskService := services.NewTaskService(taskRepo)

	// ハンドラー
	userHandler := handlers.NewUserHandler(authService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)

	// ルーティング
	r.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			logger.Error("health check failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/register", userHandler.RegisterHandler)
	r.POST("/login", userHandler.LoginHandler)

	authorized := r.Group("/items")
	authorized.Use(AuthMiddleware(jwtService, logger))
	{
		authorized.GET("", taskHandler.GetTasksHandler)
		authorized.POST("", taskHandler.CreateTaskHandler)
		authorized.PUT("/:id", taskHandler.UpdateTaskHandler)
		authorized.DELETE("/:id", taskHandler.DeleteTaskHandler)
		if cfg.ExposeAllItems {
			authorized.GET("/all", taskHandler.GetAllTasksHandler)
		}
	}

	if cfg.StaticDir != "" {
		serveStatic(r, cfg.StaticDir)
	}

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigins
		c.AllowCredentials = true
	}
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	c.ExposeHeaders = []string{RequestIDHeader, "Location"}
	c.MaxAge = 12 * time.Hour
	return c
}

// serveStatic は静的ファイルを配信し、未知の GET は index.html にフォールバックします。
func serveStatic(r *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
			return
		}
		path := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}
		c.File(index)
	})
}
