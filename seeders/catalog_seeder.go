package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedDeviceTypes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'device_types'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO device_types (name, description) VALUES ($1, $2)
			  ON CONFLICT (name) DO NOTHING`
	for _, t := range deviceTypesData {
		if _, err := tx.Exec(ctx, query, t.Name, t.Description); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func seedEmployees(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'employees'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO employees (full_name, position, department, email) VALUES ($1, $2, $3, $4)
			  ON CONFLICT (email) DO NOTHING`
	for _, e := range employeesData {
		if _, err := tx.Exec(ctx, query, e.FullName, e.Position, e.Department, e.Email); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func seedDevices(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'devices'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO devices (inventory_number, model, device_type_id, status)
			  SELECT $1, $2, t.id, $4 FROM device_types t WHERE t.name = $3
			  ON CONFLICT (inventory_number) DO NOTHING`
	for _, d := range devicesData {
		if _, err := tx.Exec(ctx, query, d.InventoryNumber, d.Model, d.TypeName, string(d.Status)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
