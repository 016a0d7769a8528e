// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"dailyverse/internal/config"
	"dailyverse/internal/database"
	"dailyverse/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	action := flag.String("action", "status", "migration action: up, status or down")
	version := flag.Int("version", 0, "migration version to roll back (down only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplyMigrations: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(*action)) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "status":
		status, err := database.GetMigrationStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		log.Printf("applied=%d pending=%d", len(status.AppliedVersions), len(status.Pending))
		for _, m := range status.Pending {
			log.Printf("pending: %s", m.String())
		}
	case "down":
		if *version <= 0 {
			return fmt.Errorf("usage: migrate -action down -version <n>")
		}
		if err := database.RollbackMigration(ctx, db, *version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", *version)
	default:
		return fmt.Errorf("usage: migrate -action <up|status|down> [-version n]")
	}

	return nil
}
