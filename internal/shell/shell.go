// Package shell はターミナル上で動く To-Do クライアントの対話シェルです。
//
// 状態は二つだけです: 未ログイン (Anonymous) とログイン済み (Authenticated)。
// 追加・完了切替・削除のあとは必ず一覧を再取得して表示し直します。
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"go-todo-list/backend/internal/client"
)

// ErrQuit は quit / exit コマンドで返されます。
var ErrQuit = errors.New("quit")

// PasswordReader はエコーなしでパスワードを読み取ります。
type PasswordReader func(prompt string) (string, error)

// Shell は client.Client を操作する対話シェルです。
type Shell struct {
	client       *client.Client
	out          io.Writer
	readPassword PasswordReader
}

// New は新しい Shell を作成します。readPassword は nil でも構いません
// (その場合パスワードは引数で渡す必要があります)。
func New(c *client.Client, out io.Writer, readPassword PasswordReader) *Shell {
	return &Shell{client: c, out: out, readPassword: readPassword}
}

// Prompt は現在の状態に応じたプロンプトを返します。
func (s *Shell) Prompt() string {
	if sess := s.client.Session(); sess != nil {
		return sess.Username + "@todo> "
	}
	return "todo> "
}

// Run は readline から一行ずつ読み取り、コマンドを実行します。
func (s *Shell) Run(ctx context.Context, rl *readline.Instance) error {
	if s.client.LoggedIn() {
		s.greet()
		s.refresh(ctx)
	} else {
		fmt.Fprintln(s.out, "Not logged in. Type 'login <username>' or 'register <username>'.")
	}

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintln(s.out, "Error:", err)
		}
	}
}

// Execute は一行分のコマンドを実行します。ユーザー向けのエラー表示は
// Execute 内で行い、ErrQuit とコマンド構文エラーのみを返します。
func (s *Shell) Execute(ctx context.Context, line string) error {
	args := ParseArgs(line)
	if len(args) == 0 {
		return nil
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "help", "?":
		s.help()
		return nil
	case "quit", "exit":
		return ErrQuit
	}

	if !s.client.LoggedIn() {
		switch cmd {
		case "register":
			return s.register(ctx, rest)
		case "login":
			return s.login(ctx, rest)
		default:
			return fmt.Errorf("unknown command %q (not logged in)", cmd)
		}
	}

	switch cmd {
	case "list", "ls":
		s.refresh(ctx)
	case "add":
		name := strings.TrimSpace(strings.Join(rest, " "))
		if name == "" {
			return errors.New("usage: add <task name>")
		}
		_, err := s.client.AddTask(ctx, name)
		s.afterMutation(ctx, err)
	case "done", "undo":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		s.afterMutation(ctx, s.client.SetComplete(ctx, id, cmd == "done"))
	case "rm", "delete":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		s.afterMutation(ctx, s.client.DeleteTask(ctx, id))
	case "whoami":
		s.greet()
	case "logout":
		if err := s.client.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out.")
	case "register", "login":
		return errors.New("already logged in, 'logout' first")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (s *Shell) register(ctx context.Context, args []string) error {
	username, password, err := s.credentials(args)
	if err != nil {
		return err
	}
	if err := s.client.Register(ctx, username, password); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Registered successfully! You can log in now.")
	return nil
}

func (s *Shell) login(ctx context.Context, args []string) error {
	username, password, err := s.credentials(args)
	if err != nil {
		return err
	}
	if _, err := s.client.Login(ctx, username, password); err != nil {
		s.report(err)
		return nil
	}
	s.greet()
	s.refresh(ctx)
	return nil
}

func (s *Shell) credentials(args []string) (string, string, error) {
	switch {
	case len(args) >= 2:
		return args[0], args[1], nil
	case len(args) == 1 && s.readPassword != nil:
		pw, err := s.readPassword("password: ")
		if err != nil {
			return "", "", err
		}
		return args[0], pw, nil
	default:
		return "", "", errors.New("usage: <command> <username> [password]")
	}
}

// afterMutation は変更操作の結果を報告し、成功・失敗にかかわらず一覧を再取得します。
func (s *Shell) afterMutation(ctx context.Context, err error) {
	if err != nil {
		s.report(err)
		if errors.Is(err, client.ErrSessionExpired) {
			return
		}
	}
	s.refresh(ctx)
}

func (s *Shell) refresh(ctx context.Context) {
	tasks, err := s.client.Tasks(ctx)
	if err != nil {
		s.report(err)
		return
	}
	Render(s.out, tasks)
}

func (s *Shell) greet() {
	if sess := s.client.Session(); sess != nil {
		fmt.Fprintf(s.out, "Hello, %s\n", sess.Username)
	}
}

// report はエラーをユーザー向けの文言で表示します。
func (s *Shell) report(err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		fmt.Fprintln(s.out, "Your session has expired. Please log in again.")
	case errors.As(err, &apiErr):
		fmt.Fprintln(s.out, "Error:", apiErr.Message)
	default:
		fmt.Fprintln(s.out, "Error:", client.FallbackMessage)
	}
}

// Render はタスク一覧を表示します。
func Render(w io.Writer, tasks []client.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  (no tasks)")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.IsComplete {
			mark = "x"
		}
		fmt.Fprintf(w, "  [%s] %d  %s\n", mark, t.ID, t.Name)
	}
}

// ParseArgs は空白で区切り、ダブルクォート内の空白は保持します。
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ' ' || r == '\t') && !inQuotes:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

func parseID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("usage: <command> <task id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

func (s *Shell) help() {
	fmt.Fprint(s.out, `Commands:
  register <username> [password]   create an account
  login <username> [password]      log in
  list                             show your tasks
  add <task name>                  add a task
  done <id> / undo <id>            mark a task complete / incomplete
  rm <id>                          delete a task
  whoami                           show the logged in user
  logout                           log out
  quit                             leave the shell
`)
}
