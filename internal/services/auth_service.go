package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-todo-list/backend/internal/models"
	"go-todo-list/backend/internal/repositories"
)

var (
	// ErrInvalidCredentials はユーザーが存在しないかパスワードが一致しない場合のエラーです。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput は必須項目が空の場合のエラーです。
	ErrInvalidInput = errors.New("username and password are required")
)

// AuthService は登録とログインのビジネスロジックを扱います。
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *JWTService
	bcryptCost int
	logger     *slog.Logger
}

// NewAuthService は新しいAuthServiceを作成します。
func NewAuthService(userRepo *repositories.UserRepository, jwtService *JWTService, bcryptCost int, logger *slog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtService: jwtService, bcryptCost: bcryptCost, logger: logger}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Register はユーザーを登録します。ユーザー名が既に存在する場合は
// repositories.ErrDuplicateUsername を返し、既存ユーザーには触れません。
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	exists, err := s.userRepo.Exists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repositories.ErrDuplicateUsername
	}

	hashed, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	// 事前チェック後の同時登録は一意制約で ErrDuplicateUsername になる
	user, err := s.userRepo.Create(ctx, &models.User{Username: username, PasswordHash: hashed})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	user.PasswordHash = ""
	return user, nil
}

// Login は資格情報を検証し、成功したらセッショントークンとユーザーを返します。
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		s.logger.Debug("password mismatch", "username", user.Username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}

	user.PasswordHash = ""
	return token, user, nil
}
