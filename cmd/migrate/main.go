package main

import (
	"context"
	"flag"
	"log"

	"assetflow/migrations"
	"assetflow/pkg/config"
	applogger "assetflow/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	command := flag.String("cmd", "up", "Команда goose: up, down, status, reset")
	flag.Parse()

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.FilePath)
	defer func() { _ = logger.Sync() }()

	pool, err := pgxpool.New(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("Ошибка настройки goose", zap.Error(err))
	}

	switch *command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	case "reset":
		err = goose.Reset(db, ".")
	default:
		logger.Fatal("Неизвестная команда", zap.String("cmd", *command))
	}
	if err != nil {
		logger.Fatal("Ошибка выполнения миграций", zap.String("cmd", *command), zap.Error(err))
	}
	logger.Info("Миграции выполнены", zap.String("cmd", *command))
}
