// Package client は To-Do API の HTTP クライアントとセッション管理を提供します。
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v5"
)

// GuestName はトークンから表示名を取り出せない場合の表示名です。
const GuestName = "guest"

// Session はログイン中のユーザーを表す明示的なセッションです。
// トークンのみが永続化され、他の値は起動時にトークンから復元されます。
type Session struct {
	Token    string `json:"token"`
	UserID   int    `json:"-"`
	Username string `json:"-"`
}

// NewSession はトークンを検証せずにデコードし、表示用の値を埋めたセッションを返します。
// デコードに失敗してもエラーとともにセッションを返し、呼び出し側は表示名に GuestName を使えます。
func NewSession(token string) (*Session, error) {
	s := &Session{Token: token, Username: GuestName}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s, fmt.Errorf("decode token: %w", err)
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		s.Username = name
	}
	if id, ok := claims["id"].(float64); ok {
		s.UserID = int(id)
	}
	return s, nil
}

// SessionStore はセッションの永続化先です。
type SessionStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileStore はセッショントークンを JSON ファイルに保存します。
type FileStore struct {
	Path string
}

// DefaultSessionPath はユーザー設定ディレクトリ配下の既定パスを返します。
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "todolist", "session.json"), nil
}

// Load は保存済みのトークンを返します。ファイルが無ければ空文字を返します。
func (f *FileStore) Load() (string, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return "", fmt.Errorf("parse session: %w", err)
	}
	return s.Token, nil
}

// Save はトークンを所有者のみ読めるファイルに書き込みます。
func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.Marshal(Session{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

// Clear は保存済みのセッションを削除します。
func (f *FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryStore はプロセス内だけでトークンを保持します。
type MemoryStore struct {
	token string
}

func (m *MemoryStore) Load() (string, error)  { return m.token, nil }
func (m *MemoryStore) Save(token string) error { m.token = token; return nil }
func (m *MemoryStore) Clear() error            { m.token = ""; return nil }
