package main

import (
	"context"
	"flag"
	"log"

	"assetflow/pkg/config"
	"assetflow/pkg/database/postgresql"
	applogger "assetflow/pkg/logger"
	"assetflow/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runAll := flag.Bool("all", false, "Наполнить типы, сотрудников, оборудование, пользователей и заявки")
	runReset := flag.Bool("reset", false, "Очистить данные (пользователи сохраняются)")
	flag.Parse()

	if !*runAll && !*runReset {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("  go run ./seeders/cmd/seed -reset -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	ctx := context.Background()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	log.Println("======================================================")

	// сброс идёт первым, чтобы -reset -all давал чистый набор
	if *runReset {
		if err := seeders.Reset(ctx, dbPool); err != nil {
			log.Fatalf("❌ Сброс не выполнен: %v", err)
		}
		log.Println("======================================================")
	}
	if *runAll {
		if err := seeders.SeedAll(ctx, dbPool); err != nil {
			log.Fatalf("❌ Наполнение не выполнено: %v", err)
		}
		log.Println("======================================================")
	}
}
