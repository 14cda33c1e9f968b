package repositories

import (
	"context"
	"fmt"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	db "assetflow/internal/infrastructure/bd"
	"assetflow/pkg/constants"
	"assetflow/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const deviceTable = "devices"

var deviceSelectFields = []string{
	"d.id", "d.inventory_number", "d.model", "d.device_type_id", "d.status",
	"d.purchase_date", "d.responsible_person_id", "d.is_written_off", "d.write_off_reason", "d.write_off_date",
	"d.created_at", "d.updated_at",
	"t.id", "t.name",
}

// Белый список полей для фильтрации и сортировки
var deviceList = db.ListQuery{
	Columns: map[string]string{
		"id":               "d.id",
		"status":           "d.status",
		"device_type_id":   "d.device_type_id",
		"is_written_off":   "d.is_written_off",
		"inventory_number": "d.inventory_number",
		"model":            "d.model",
		"created_at":       "d.created_at",
	},
	SearchIn:     []string{"d.model", "d.inventory_number"},
	DefaultOrder: []string{"d.inventory_number ASC"},
}

type DeviceRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error)
	// FindForUpdate блокирует строку устройства до конца транзакции.
	FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error)
	Create(ctx context.Context, tx pgx.Tx, d entities.Device) (uint64, error)
	Update(ctx context.Context, d entities.Device) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.DeviceStatus) error
	WriteOff(ctx context.Context, tx pgx.Tx, id uint64, reason string, date time.Time) error
	Delete(ctx context.Context, id uint64) error
	Stats(ctx context.Context) (dto.DeviceStatsDTO, error)
}

type DeviceRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDeviceRepository(storage *pgxpool.Pool, logger *zap.Logger) DeviceRepositoryInterface {
	return &DeviceRepository{storage: storage, logger: logger}
}

func scanDevice(row pgx.Row) (*entities.Device, error) {
	var d entities.Device
	var t entities.DeviceType
	err := row.Scan(
		&d.ID, &d.InventoryNumber, &d.Model, &d.DeviceTypeID, &d.Status,
		&d.PurchaseDate, &d.ResponsiblePersonID, &d.IsWrittenOff, &d.WriteOffReason, &d.WriteOffDate,
		&d.CreatedAt, &d.UpdatedAt,
		&t.ID, &t.Name,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	d.DeviceType = &t
	return &d, nil
}

func (r *DeviceRepository) baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(deviceSelectFields...).
		From("devices d").
		Join("device_types t ON t.id = d.device_type_id")
}

func (r *DeviceRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	sqlCount, argsCount, err := deviceList.Filtered(psql.Select("COUNT(d.id)").From("devices d"), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Device{}, 0, nil
	}

	query, args, err := deviceList.Paged(r.baseSelect(), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	devices := make([]entities.Device, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, 0, err
		}
		devices = append(devices, *d)
	}
	return devices, total, rows.Err()
}

func (r *DeviceRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"d.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanDevice(getQuerier(tx, r.storage).QueryRow(ctx, query, args...))
}

func (r *DeviceRepository) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"d.id": id}).Suffix("FOR UPDATE OF d").ToSql()
	if err != nil {
		return nil, err
	}
	return scanDevice(getQuerier(tx, r.storage).QueryRow(ctx, query, args...))
}

func (r *DeviceRepository) Create(ctx context.Context, tx pgx.Tx, d entities.Device) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (inventory_number, model, device_type_id, status, purchase_date, responsible_person_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, deviceTable)

	status := d.Status
	if status == "" {
		status = constants.DeviceStatusAvailable
	}

	var id uint64
	err := getQuerier(tx, r.storage).QueryRow(ctx, query,
		d.InventoryNumber, d.Model, d.DeviceTypeID, string(status), d.PurchaseDate, d.ResponsiblePersonID,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

// Update меняет карточку устройства. Статус здесь не трогается.
func (r *DeviceRepository) Update(ctx context.Context, d entities.Device) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET inventory_number = $1, model = $2, device_type_id = $3, purchase_date = $4,
		    responsible_person_id = $5, updated_at = NOW()
		WHERE id = $6`, deviceTable)

	result, err := r.storage.Exec(ctx, query,
		d.InventoryNumber, d.Model, d.DeviceTypeID, d.PurchaseDate, d.ResponsiblePersonID, d.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *DeviceRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.DeviceStatus) error {
	query := fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2", deviceTable)
	result, err := getQuerier(tx, r.storage).Exec(ctx, query, string(status), id)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *DeviceRepository) WriteOff(ctx context.Context, tx pgx.Tx, id uint64, reason string, date time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_written_off = TRUE, write_off_reason = $1, write_off_date = $2, updated_at = NOW()
		WHERE id = $3`, deviceTable)
	result, err := getQuerier(tx, r.storage).Exec(ctx, query, reason, date, id)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", deviceTable), id)
	if err != nil {
		r.logger.Warn("Не удалось удалить оборудование", zap.Uint64("id", id), zap.Error(err))
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

// Stats считает только не списанное оборудование.
func (r *DeviceRepository) Stats(ctx context.Context) (dto.DeviceStatsDTO, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'available'),
			COUNT(*) FILTER (WHERE status = 'in_use'),
			COUNT(*) FILTER (WHERE status = 'broken')
		FROM %s
		WHERE NOT is_written_off`, deviceTable)

	var stats dto.DeviceStatsDTO
	err := r.storage.QueryRow(ctx, query).Scan(&stats.Total, &stats.Available, &stats.InUse, &stats.Broken)
	return stats, err
}
