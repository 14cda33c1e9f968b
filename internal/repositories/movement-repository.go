package repositories

import (
	"context"
	"fmt"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/pkg/constants"
	"assetflow/pkg/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movementTable = "equipment_movements"

var movementSelectFields = []string{
	"m.id", "m.device_id", "d.inventory_number", "d.model",
	"m.employee_id", "e.full_name", "m.movement_type", "m.notes", "m.tx_id", `m."timestamp"`,
}

// Журнал только дополняется: методов изменения и удаления нет.
type MovementRepositoryInterface interface {
	Append(ctx context.Context, tx pgx.Tx, m entities.EquipmentMovement) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*dto.MovementDTO, error)
	// List возвращает записи от новых к старым. deviceID == nil - по всем устройствам.
	List(ctx context.Context, deviceID *uint64, limit uint64) ([]dto.MovementDTO, error)
}

type MovementRepository struct {
	storage *pgxpool.Pool
}

func NewMovementRepository(storage *pgxpool.Pool) MovementRepositoryInterface {
	return &MovementRepository{storage: storage}
}

func scanMovement(row pgx.Row) (*dto.MovementDTO, error) {
	var m dto.MovementDTO
	var movementType constants.MovementType
	var txID uuid.UUID
	var ts time.Time
	err := row.Scan(
		&m.ID, &m.DeviceID, &m.InventoryNumber, &m.DeviceModel,
		&m.EmployeeID, &m.EmployeeName, &movementType, &m.Notes, &txID, &ts,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	m.MovementType = string(movementType)
	m.MovementLabel = constants.MovementTypeLabels[movementType]
	m.TxID = txID.String()
	m.Timestamp = utils.FormatDateTime(ts)
	return &m, nil
}

func (r *MovementRepository) baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(movementSelectFields...).
		From(movementTable + " m").
		Join("devices d ON d.id = m.device_id").
		Join("employees e ON e.id = m.employee_id")
}

func (r *MovementRepository) Append(ctx context.Context, tx pgx.Tx, m entities.EquipmentMovement) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (device_id, employee_id, movement_type, notes, tx_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`, movementTable)
	var id uint64
	err := getQuerier(tx, r.storage).QueryRow(ctx, query,
		m.DeviceID, m.EmployeeID, string(m.MovementType), m.Notes, m.TxID,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *MovementRepository) FindByID(ctx context.Context, id uint64) (*dto.MovementDTO, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanMovement(r.storage.QueryRow(ctx, query, args...))
}

func (r *MovementRepository) List(ctx context.Context, deviceID *uint64, limit uint64) ([]dto.MovementDTO, error) {
	builder := r.baseSelect().OrderBy(`m."timestamp" DESC`, "m.id DESC")
	if deviceID != nil {
		builder = builder.Where(sq.Eq{"m.device_id": *deviceID})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
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

	result := make([]dto.MovementDTO, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}
