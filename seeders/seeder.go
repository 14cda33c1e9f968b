package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedAll наполняет справочники, пользователей и демонстрационные заявки.
// Повторный запуск ничего не дублирует.
func SeedAll(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("▶️  Запуск наполнения демонстрационными данными...")

	if err := seedDeviceTypes(ctx, db); err != nil {
		log.Printf("❌ Ошибка наполнения Типов оборудования: %v", err)
		return err
	}
	if err := seedEmployees(ctx, db); err != nil {
		log.Printf("❌ Ошибка наполнения Сотрудников: %v", err)
		return err
	}
	if err := seedDevices(ctx, db); err != nil {
		log.Printf("❌ Ошибка наполнения Оборудования: %v", err)
		return err
	}
	if err := seedUsers(ctx, db); err != nil {
		log.Printf("❌ Ошибка создания Пользователей: %v", err)
		return err
	}
	if err := seedWorkflow(ctx, db); err != nil {
		log.Printf("❌ Ошибка наполнения Заявок и Ремонтов: %v", err)
		return err
	}

	log.Println("✅ Наполнение завершено!")
	return nil
}

// domainTables очищаются при сбросе. Пользователи и профили остаются.
var domainTables = []string{
	"equipment_movements",
	"extensions",
	"repairs",
	"requests",
	"devices",
	"employees",
	"device_types",
}

func Reset(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("▶️  Очистка данных (пользователи сохраняются)...")
	for _, table := range domainTables {
		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			log.Printf("❌ Не удалось очистить %s: %v", table, err)
			return err
		}
	}
	log.Println("✅ Все данные очищены!")
	return nil
}
