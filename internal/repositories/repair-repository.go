package repositories

import (
	"context"
	"fmt"
	"time"

	"assetflow/internal/entities"
	"assetflow/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repairTable = "repairs"

var repairSelectFields = []string{
	"rp.id", "rp.device_id", "rp.reported_by_id", "rp.assigned_tech_id", "rp.description", "rp.status",
	"rp.created_at", "rp.completed_at",
	"d.inventory_number", "d.model", "d.status",
	"e.full_name", "e.position",
}

type RepairRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Repair, error)
	Create(ctx context.Context, tx pgx.Tx, repair entities.Repair) (uint64, error)
	Complete(ctx context.Context, tx pgx.Tx, id uint64, techUserID uint64, completedAt time.Time) error
	// HasOpenRepair: есть ли на устройстве ремонт в работе, кроме excludeID.
	HasOpenRepair(ctx context.Context, tx pgx.Tx, deviceID, excludeID uint64) (bool, error)
	FindOpenByDevices(ctx context.Context, deviceIDs []uint64) (map[uint64]entities.Repair, error)
	List(ctx context.Context, status *constants.RepairStatus) ([]entities.Repair, error)
	Counts(ctx context.Context) (total uint64, completed uint64, err error)
}

type RepairRepository struct {
	storage *pgxpool.Pool
}

func NewRepairRepository(storage *pgxpool.Pool) RepairRepositoryInterface {
	return &RepairRepository{storage: storage}
}

func scanRepair(row pgx.Row) (*entities.Repair, error) {
	var rp entities.Repair
	dev := &entities.Device{}
	emp := &entities.Employee{}
	err := row.Scan(
		&rp.ID, &rp.DeviceID, &rp.ReportedByID, &rp.AssignedTechID, &rp.Description, &rp.Status,
		&rp.CreatedAt, &rp.CompletedAt,
		&dev.InventoryNumber, &dev.Model, &dev.Status,
		&emp.FullName, &emp.Position,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	dev.ID = rp.DeviceID
	emp.ID = rp.ReportedByID
	rp.Device = dev
	rp.ReportedBy = emp
	return &rp, nil
}

func (r *RepairRepository) baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(repairSelectFields...).
		From("repairs rp").
		Join("devices d ON d.id = rp.device_id").
		Join("employees e ON e.id = rp.reported_by_id")
}

func (r *RepairRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Repair, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"rp.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRepair(getQuerier(tx, r.storage).QueryRow(ctx, query, args...))
}

func (r *RepairRepository) Create(ctx context.Context, tx pgx.Tx, repair entities.Repair) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (device_id, reported_by_id, description, status)
		VALUES ($1, $2, $3, $4) RETURNING id`, repairTable)
	var id uint64
	err := getQuerier(tx, r.storage).QueryRow(ctx, query,
		repair.DeviceID, repair.ReportedByID, repair.Description, string(constants.RepairStatusRepairing),
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *RepairRepository) Complete(ctx context.Context, tx pgx.Tx, id uint64, techUserID uint64, completedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = $1, assigned_tech_id = $2, completed_at = $3
		WHERE id = $4`, repairTable)
	result, err := getQuerier(tx, r.storage).Exec(ctx, query, string(constants.RepairStatusCompleted), techUserID, completedAt, id)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *RepairRepository) HasOpenRepair(ctx context.Context, tx pgx.Tx, deviceID, excludeID uint64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE device_id = $1 AND status = $2 AND id <> $3
		)`, repairTable)
	var exists bool
	err := getQuerier(tx, r.storage).QueryRow(ctx, query, deviceID, string(constants.RepairStatusRepairing), excludeID).Scan(&exists)
	return exists, err
}

func (r *RepairRepository) FindOpenByDevices(ctx context.Context, deviceIDs []uint64) (map[uint64]entities.Repair, error) {
	result := make(map[uint64]entities.Repair)
	if len(deviceIDs) == 0 {
		return result, nil
	}
	query, args, err := r.baseSelect().
		Where(sq.Eq{"rp.device_id": deviceIDs, "rp.status": string(constants.RepairStatusRepairing)}).
		OrderBy("rp.created_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		rp, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		// самый поздний открытый ремонт перезаписывает ранние
		result[rp.DeviceID] = *rp
	}
	return result, rows.Err()
}

func (r *RepairRepository) List(ctx context.Context, status *constants.RepairStatus) ([]entities.Repair, error) {
	builder := r.baseSelect().OrderBy("rp.created_at DESC", "rp.id DESC")
	if status != nil {
		builder = builder.Where(sq.Eq{"rp.status": string(*status)})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repairs := make([]entities.Repair, 0)
	for rows.Next() {
		rp, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		repairs = append(repairs, *rp)
	}
	return repairs, rows.Err()
}

func (r *RepairRepository) Counts(ctx context.Context) (uint64, uint64, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1) FROM %s`, repairTable)
	var total, completed uint64
	err := r.storage.QueryRow(ctx, query, string(constants.RepairStatusCompleted)).Scan(&total, &completed)
	return total, completed, err
}
