package repositories

import (
	"context"
	"fmt"

	"assetflow/internal/entities"
	"assetflow/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	extensionTable  = "extensions"
	extensionFields = "id, request_id, new_return_date, reason, status, decided_by, created_at, updated_at"
)

type ExtensionRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Extension, error)
	Create(ctx context.Context, tx pgx.Tx, ext entities.Extension) (uint64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus, decidedBy uint64) error
	List(ctx context.Context, status *constants.RequestStatus) ([]entities.Extension, error)
}

type ExtensionRepository struct {
	storage *pgxpool.Pool
}

func NewExtensionRepository(storage *pgxpool.Pool) ExtensionRepositoryInterface {
	return &ExtensionRepository{storage: storage}
}

func scanExtension(row pgx.Row) (*entities.Extension, error) {
	var ext entities.Extension
	err := row.Scan(&ext.ID, &ext.RequestID, &ext.NewReturnDate, &ext.Reason, &ext.Status, &ext.DecidedBy, &ext.CreatedAt, &ext.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &ext, nil
}

func (r *ExtensionRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Extension, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", extensionFields, extensionTable)
	return scanExtension(getQuerier(tx, r.storage).QueryRow(ctx, query, id))
}

func (r *ExtensionRepository) Create(ctx context.Context, tx pgx.Tx, ext entities.Extension) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (request_id, new_return_date, reason, status)
		VALUES ($1, $2, $3, $4) RETURNING id`, extensionTable)
	var id uint64
	err := getQuerier(tx, r.storage).QueryRow(ctx, query,
		ext.RequestID, ext.NewReturnDate, ext.Reason, string(constants.RequestStatusPending),
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *ExtensionRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus, decidedBy uint64) error {
	query := fmt.Sprintf("UPDATE %s SET status = $1, decided_by = $2, updated_at = NOW() WHERE id = $3", extensionTable)
	result, err := getQuerier(tx, r.storage).Exec(ctx, query, string(status), decidedBy, id)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *ExtensionRepository) List(ctx context.Context, status *constants.RequestStatus) ([]entities.Extension, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(extensionFields).
		From(extensionTable).
		OrderBy("created_at DESC")
	if status != nil {
		builder = builder.Where(sq.Eq{"status": string(*status)})
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

	result := make([]entities.Extension, 0)
	for rows.Next() {
		ext, err := scanExtension(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ext)
	}
	return result, rows.Err()
}
