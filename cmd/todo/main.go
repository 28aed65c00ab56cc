package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"

	"go-todo-list/backend/internal/client"
	"go-todo-list/backend/internal/shell"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	_ = godotenv.Load()

	apiURL := os.Getenv("TODO_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	sessionPath := os.Getenv("TODO_SESSION_FILE")
	if sessionPath == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			log.Fatalf("Fatal: cannot resolve session file: %v", err)
		}
		sessionPath = p
	}

	level := slog.LevelWarn
	if os.Getenv("TODO_DEBUG") == "true" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c, err := client.New(apiURL, &client.FileStore{Path: sessionPath}, client.WithLogger(logger))
	if err != nil {
		log.Fatalf("Fatal: failed to start client: %v", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "todo> ",
		HistoryFile:     filepath.Join(filepath.Dir(sessionPath), "history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("Fatal: failed to initialize readline: %v", err)
	}
	defer rl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	readPassword := func(prompt string) (string, error) {
		b, err := rl.ReadPassword(prompt)
		return string(b), err
	}

	if err := shell.New(c, rl.Stdout(), readPassword).Run(ctx, rl); err != nil {
		logger.Error("shell exited with error", "error", err)
		os.Exit(1)
	}
}
