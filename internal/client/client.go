package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	// ErrSessionExpired はログイン以外の呼び出しで 401 を受け取り、セッションを破棄したことを表します。
	ErrSessionExpired = errors.New("session expired, please log in again")
	// ErrNotLoggedIn はセッションが無い状態で認証が必要な操作を呼んだ場合のエラーです。
	ErrNotLoggedIn = errors.New("not logged in")
)

// FallbackMessage はサーバーがメッセージを返さなかった場合の表示文言です。
const FallbackMessage = "something went wrong, check your details"

// APIError は 401 以外のエラーレスポンスです。
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Task はAPIが返すタスクです。
type Task struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	IsComplete bool   `json:"isComplete"`
	UserID     int    `json:"userId"`
}

// Client は To-Do API のクライアントです。
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	logger  *slog.Logger

	mu      sync.Mutex
	session *Session
}

// Option は Client の設定を変更します。
type Option func(*Client)

// WithHTTPClient は使用する http.Client を差し替えます。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger はロガーを設定します。
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New はクライアントを作成し、store に保存されたセッションを復元します。
func New(baseURL string, store SessionStore, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	if token != "" {
		c.session = c.sessionFromToken(token)
	}
	return c, nil
}

// Session は現在のセッションを返します。未ログインなら nil です。
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// LoggedIn はセッションを保持しているかを返します。
func (c *Client) LoggedIn() bool {
	return c.Session() != nil
}

// Register は新しいユーザーを登録します。
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/register", credentials{username, password}, nil, false)
}

// Login はログインし、取得したトークンを保存してセッションを開始します。
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var res struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", credentials{username, password}, &res, false); err != nil {
		return nil, err
	}
	if err := c.store.Save(res.Token); err != nil {
		return nil, err
	}

	s := c.sessionFromToken(res.Token)
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	return c.Session(), nil
}

// Logout はセッションを破棄します。セッション破棄の唯一の経路です。
func (c *Client) Logout() error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return c.store.Clear()
}

// Tasks はログインユーザーのタスク一覧を取得します。
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/items", nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddTask は未完了のタスクを作成します。
func (c *Client) AddTask(ctx context.Context, name string) (*Task, error) {
	var task Task
	body := map[string]any{"name": name, "isComplete": false}
	if err := c.do(ctx, http.MethodPost, "/items", body, &task, true); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetComplete はタスクの完了状態を変更します。
func (c *Client) SetComplete(ctx context.Context, id int, isComplete bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), map[string]bool{"isComplete": isComplete}, nil, true)
}

// DeleteTask はタスクを削除します。
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil, true)
}

type credentials struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

func (c *Client) sessionFromToken(token string) *Session {
	s, err := NewSession(token)
	if err != nil {
		c.logger.Warn("could not decode session token", "error", err)
	}
	return s
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if s := c.Session(); s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	} else if auth {
		return ErrNotLoggedIn
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && path != "/login" {
		c.logger.Info("server rejected session, logging out", "path", path)
		if err := c.Logout(); err != nil {
			c.logger.Error("failed to clear session", "error", err)
		}
		return ErrSessionExpired
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage はレスポンスボディから message / error を取り出します。
func errorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(bytes.TrimSpace(b)) == 0 {
		return FallbackMessage
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
		return FallbackMessage
	}
	var s string
	if json.Unmarshal(b, &s) == nil && s != "" {
		return s
	}
	return strings.TrimSpace(string(b))
}
