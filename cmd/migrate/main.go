package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/Dosada05/sportshive/db"
)

func main() {
	var (
		dsn     = flag.String("db", os.Getenv("DATABASE_URL"), "Postgres DSN (defaults to DATABASE_URL)")
		command = flag.String("command", "up", "Command to run (up, down, version)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if *dsn == "" {
		flag.Usage()
		os.Exit(1)
	}

	sqlDB, err := db.Connect(context.Background(), *dsn, db.DefaultPoolOptions())
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	m, err := db.NewMigrator(sqlDB)
	if err != nil {
		logger.Error("migration init failed", slog.Any("error", err))
		os.Exit(1)
	}

	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("migration up failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("migration down failed", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations rolled back")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logger.Error("get version failed", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		logger.Error("unknown command", slog.String("command", *command))
		os.Exit(1)
	}
}
