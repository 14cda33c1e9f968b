package seeders

import (
	"context"
	"errors"
	"log"

	"assetflow/pkg/constants"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// seedWorkflow создаёт заявки и ремонты, а для выданного и сломанного оборудования
// ещё и записи журнала, чтобы отчёт о движении не был пустым.
func seedWorkflow(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение заявок, ремонтов и журнала...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range requestsData {
		var requestID uint64
		err := tx.QueryRow(ctx, `
			INSERT INTO requests (employee_id, device_id, status, purpose)
			SELECT e.id, d.id, $3, $4
			FROM employees e, devices d
			WHERE e.email = $1 AND d.inventory_number = $2
			  AND NOT EXISTS (SELECT 1 FROM requests x WHERE x.employee_id = e.id AND x.device_id = d.id)
			RETURNING id`, r.EmployeeEmail, r.InventoryNumber, string(r.Status), r.Purpose).Scan(&requestID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return err
		}
		if r.Status == constants.RequestStatusApproved {
			if err := insertMovement(ctx, tx, r.InventoryNumber, r.EmployeeEmail, constants.MovementIssue, r.Purpose); err != nil {
				return err
			}
		}
	}

	for _, r := range repairsData {
		tag, err := tx.Exec(ctx, `
			INSERT INTO repairs (device_id, reported_by_id, description, status)
			SELECT d.id, e.id, $3, $4
			FROM devices d, employees e
			WHERE d.inventory_number = $1 AND e.email = $2
			  AND NOT EXISTS (SELECT 1 FROM repairs x WHERE x.device_id = d.id AND x.status = $4)`,
			r.InventoryNumber, r.ReporterEmail, r.Description, string(constants.RepairStatusRepairing))
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			continue
		}
		if err := insertMovement(ctx, tx, r.InventoryNumber, r.ReporterEmail, constants.MovementRepair, r.Description); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func insertMovement(ctx context.Context, tx pgx.Tx, inventoryNumber, email string, movementType constants.MovementType, notes string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO equipment_movements (device_id, employee_id, movement_type, notes, tx_id)
		SELECT d.id, e.id, $3, $4, $5
		FROM devices d, employees e
		WHERE d.inventory_number = $1 AND e.email = $2`,
		inventoryNumber, email, string(movementType), notes, uuid.New())
	return err
}
