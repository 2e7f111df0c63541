package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/jaekwang-park/taskdeck/internal/config"
	taskhttp "github.com/jaekwang-park/taskdeck/internal/http"
	"github.com/jaekwang-park/taskdeck/internal/repository"
	"github.com/jaekwang-park/taskdeck/internal/service"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"store_driver", cfg.Store.Driver,
		"log_level", cfg.LogLevel,
	)

	repo, cleanup, err := newTaskRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	taskSvc := service.NewTaskService(repo, logger)

	srv := taskhttp.NewServer(cfg.ServerPort, logger, taskSvc)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newTaskRepository builds the store selected by STORE_DRIVER. The returned
// cleanup is always safe to call.
func newTaskRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.TaskRepository, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case "memory":
		logger.Warn("using in-memory store: data is lost on restart")
		return repository.NewMemoryTask(), noop, nil

	case "dynamodb":
		client, err := repository.NewDynamoClient(ctx, cfg.Store.Dynamo.Region, cfg.Store.Dynamo.Endpoint)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("dynamodb client initialized",
			"region", cfg.Store.Dynamo.Region,
			"table", cfg.Store.Dynamo.Table,
		)
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
