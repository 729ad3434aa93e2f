package main

import (
	"context"
	"fmt"

	redisstore "github.com/gofiber/storage/redis/v3"
	"go.uber.org/zap"

	"birthdays/internal/config"
	"birthdays/internal/db"
	"birthdays/internal/logger"
)

// app holds what every subcommand needs: configuration, logging and the
// database.
type app struct {
	cfg   *config.Config
	db    *db.DB
	redis *redisstore.Storage // nil when REDIS_URL is empty
}

func bootstrap(ctx context.Context, withRedis bool) (*app, error) {
	cfg := config.Load()

	if err := logger.Init(cfg.Env); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	policy, err := config.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	cfg.Policy = policy

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &app{cfg: cfg, db: database}
	if withRedis && cfg.RedisURL != "" {
		// redisstore.New pings the server and panics when it is unreachable
		a.redis = redisstore.New(redisstore.Config{URL: cfg.RedisURL})
		logger.Info("using redis for sessions and rate limits")
	}
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}
	a.db.Close()
}

func (a *app) migrate() error {
	if err := a.db.RunMigrations(a.cfg.DatabaseURL); err != nil {
		return err
	}
	logger.Info("migrations completed successfully")
	return nil
}
