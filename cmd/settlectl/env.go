package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/skillbridge-backend/internal/config"
	"github.com/ignatzorin/skillbridge-backend/internal/db"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
)

func initLogger(verbose bool) {
	level := "info"
	if verbose {
		level = "debug"
	}
	logger.Init(level)
	logger.SetTextFormatter()
}

// openDB загружает конфигурацию и подключается к базе с небольшим пулом.
func openDB(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: db.DefaultPool.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("settlectl: подключение к базе: %w", err)
	}
	return cfg, conn, nil
}

func closeDB(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.L().WithError(err).Error("ошибка закрытия базы")
	}
}
