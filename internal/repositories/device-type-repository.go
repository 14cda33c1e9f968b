package repositories

import (
	"context"
	"fmt"

	"assetflow/internal/entities"
	db "assetflow/internal/infrastructure/bd"
	"assetflow/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	deviceTypeTable  = "device_types"
	deviceTypeFields = "id, name, description, created_at, updated_at"
)

var deviceTypeList = db.ListQuery{
	Columns: map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
	},
	SearchIn:     []string{"name"},
	DefaultOrder: []string{"name ASC"},
}

type DeviceTypeRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.DeviceType, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.DeviceType, error)
	Create(ctx context.Context, dt entities.DeviceType) (uint64, error)
	Update(ctx context.Context, dt entities.DeviceType) error
	Delete(ctx context.Context, id uint64) error
}

type DeviceTypeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDeviceTypeRepository(storage *pgxpool.Pool, logger *zap.Logger) DeviceTypeRepositoryInterface {
	return &DeviceTypeRepository{storage: storage, logger: logger}
}

func scanDeviceType(row pgx.Row) (*entities.DeviceType, error) {
	var dt entities.DeviceType
	if err := row.Scan(&dt.ID, &dt.Name, &dt.Description, &dt.CreatedAt, &dt.UpdatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &dt, nil
}

func (r *DeviceTypeRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.DeviceType, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	sqlCount, argsCount, err := deviceTypeList.Filtered(psql.Select("COUNT(*)").From(deviceTypeTable), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.DeviceType{}, 0, nil
	}

	query, args, err := deviceTypeList.Paged(psql.Select(deviceTypeFields).From(deviceTypeTable), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]entities.DeviceType, 0)
	for rows.Next() {
		dt, err := scanDeviceType(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *dt)
	}
	return result, total, rows.Err()
}

func (r *DeviceTypeRepository) FindByID(ctx context.Context, id uint64) (*entities.DeviceType, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", deviceTypeFields, deviceTypeTable)
	return scanDeviceType(r.storage.QueryRow(ctx, query, id))
}

func (r *DeviceTypeRepository) Create(ctx context.Context, dt entities.DeviceType) (uint64, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, description) VALUES ($1, $2) RETURNING id", deviceTypeTable)
	var id uint64
	if err := r.storage.QueryRow(ctx, query, dt.Name, dt.Description).Scan(&id); err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *DeviceTypeRepository) Update(ctx context.Context, dt entities.DeviceType) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`, deviceTypeTable)
	result, err := r.storage.Exec(ctx, query, dt.Name, dt.Description, dt.ID)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

// Delete: тип, на который ссылается оборудование, удалить нельзя (ON DELETE RESTRICT).
func (r *DeviceTypeRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", deviceTypeTable), id)
	if err != nil {
		r.logger.Warn("Не удалось удалить тип оборудования", zap.Uint64("id", id), zap.Error(err))
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}
