// Command sweeper ends one batch of expired live posts. It is meant to run
// from cron.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"dailyverse/internal/bootstrap"
	"dailyverse/internal/config"
	"dailyverse/internal/identity"
	"dailyverse/internal/middleware"
	"dailyverse/internal/observability"
	"dailyverse/internal/repository"
	"dailyverse/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdownTracing, err := observability.InitTracing(bootstrap.TracingConfig(cfg, "dailyverse-sweeper"))
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	store := repository.NewStore(db, repository.TxOptions{
		MaxAttempts:    cfg.Rules.TxMaxAttempts,
		InitialBackoff: cfg.Rules.TxInitialBackoff,
	})
	profiles := identity.NewProfileChain(store.Repos().Users, identity.NewRedisDirectory(nil))
	posts := service.NewLivePostService(store, profiles, cfg.Rules, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := posts.ExpireLivePosts(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("expire live posts: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "Sweep finished", slog.Int64("expired", count))
	return nil
}
