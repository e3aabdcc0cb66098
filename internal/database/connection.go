package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"howtoplatform/internal/config"
)

const connectAttempts = 5

// Connect opens the postgres pool, retrying while the database starts up.
func Connect(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), Options())
		if err == nil {
			slog.Info("connected to database", "host", cfg.DBHost, "db", cfg.DBName)
			return db, nil
		}

		slog.Warn("database connection failed", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", connectAttempts, err)
}

// Options is the gorm configuration shared by every dialect the service runs on.
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}
