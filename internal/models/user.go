package models

import "time"

// User はユーザーのデータベース構造体を表します。
// パスワードはハッシュのみを保持し、JSONには出しません。
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Credentials は登録・ログインのリクエストボディです。
// encoding/json は大文字小文字を区別しないため {"Username", "Password"} も受け付けます。
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse はログイン成功時のレスポンスです。
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse は本文がメッセージのみのレスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// JWTClaims はセッショントークンから取り出したユーザー情報です。
type JWTClaims struct {
	UserID   int
	Username string
}
