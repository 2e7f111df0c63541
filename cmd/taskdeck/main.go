package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/lib/pq"

	"github.com/jaekwang-park/taskdeck/internal/config"
	"github.com/jaekwang-park/taskdeck/internal/controller"
	"github.com/jaekwang-park/taskdeck/internal/repository"
	"github.com/jaekwang-park/taskdeck/internal/service"
	"github.com/jaekwang-park/taskdeck/internal/tui"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "taskdeck:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file when TASKDECK_LOG is
	// set and are dropped otherwise.
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, cleanup, err := newTaskRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	taskSvc := service.NewTaskService(repo, logger)
	ctrl := controller.New(taskSvc)

	return tui.Run(ctx, ctrl)
}

func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	noop := func() {}

	path := os.Getenv("TASKDECK_LOG")
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), noop, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	return logger, func() { f.Close() }, nil
}

func newTaskRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.TaskRepository, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case "memory":
		return repository.NewMemoryTask(), noop, nil

	case "dynamodb":
		client, err := repository.NewDynamoClient(ctx, cfg.Store.Dynamo.Region, cfg.Store.Dynamo.Endpoint)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewDynamoTask(client, cfg.Store.Dynamo.Table), noop, nil

	case "postgres":
		db, err := repository.NewDB(cfg.Store.DB.DSN())
		if err != nil {
			return nil, noop, err
		}
		logger.Info("database connected")
		return repository.NewPostgresTask(db), func() { db.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
