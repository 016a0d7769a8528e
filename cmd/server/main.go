// Command server is the entry point for the Dailyverse API.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"dailyverse/internal/bootstrap"
	"dailyverse/internal/config"
	"dailyverse/internal/middleware"
	"dailyverse/internal/observability"
	"dailyverse/internal/server"

	"golang.org/x/sync/errgroup"
)

// @title Dailyverse API
// @version 1.0
// @description Usernames, follows, live posts and engagement streaks
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @host localhost:8375
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		middleware.Logger.Error("Server exited with error", slog.String("error", err.Error()))
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(bootstrap.TracingConfig(cfg, "dailyverse-api"))
	if err != nil {
		return err
	}

	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return err
	}

	srv, err := server.NewServerWithDeps(cfg, db, rdb)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		middleware.Logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return errors.Join(
			srv.Shutdown(shutdownCtx),
			shutdownTracing(shutdownCtx),
		)
	})

	return g.Wait()
}
