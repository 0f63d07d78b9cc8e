package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"problemtracker/internal/cache"
	"problemtracker/internal/server"
	db "problemtracker/repository/db"
	inmemory "problemtracker/repository/inmemory"
	"problemtracker/repository/sqlite"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, os.Args[1:], log)
	stop()
	if err != nil {
		log.Error("service failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

// run serves until ctx is done or the listener fails. Everything it opens is
// closed before it returns.
func run(ctx context.Context, args []string, log *zap.Logger) error {
	log.Info("starting problem tracker service")

	cfg, err := server.ReadConfig(args)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	repo, closeRepo, err := openRepository(cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeRepo()

	if cfg.Seed {
		if err := server.Seed(ctx, repo, cfg.Statuses); err != nil {
			log.Warn("seed demo problems", zap.Error(err))
		}
	}

	var opts []server.Option
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, list cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			opts = append(opts, server.WithCache(cache.NewProblemCache(rdb, cfg.CacheTTL)))
			log.Info("list cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}
		cancel()
	}

	api := server.NewProblemAPI(cfg, repo, log, opts...)
	if api == nil {
		return errors.New("failed to initialize API")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("service listening", zap.String("addr", cfg.ListenAddr()), zap.String("storage", cfg.Storage))
		serverErr <- api.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("graceful shutdown complete")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	log.Info("service stopped")
	return nil
}

// openRepository falls back to memory when PostgreSQL is unreachable.
func openRepository(cfg *server.Config, log *zap.Logger) (server.ProblemRepository, func(), error) {
	switch cfg.Storage {
	case server.StoragePostgres:
		if err := db.Migration(cfg.DBStr, cfg.MigratePath); err != nil {
			log.Warn("migrations failed, using in-memory storage", zap.Error(err))
			return inmemory.NewStorage(), func() {}, nil
		}
		store, err := db.NewStorage(cfg.DBStr, log)
		if err != nil {
			log.Warn("database unavailable, using in-memory storage", zap.Error(err))
			return inmemory.NewStorage(), func() {}, nil
		}
		return store, store.Close, nil
	case server.StorageSQLite:
		store, err := sqlite.NewStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return inmemory.NewStorage(), func() {}, nil
	}
}
