package repositories

import (
	"context"
	"fmt"
	"time"

	"assetflow/internal/entities"
	db "assetflow/internal/infrastructure/bd"
	"assetflow/pkg/constants"
	"assetflow/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const requestTable = "requests"

var requestSelectFields = []string{
	"r.id", "r.employee_id", "r.device_id", "r.status", "r.purpose", "r.planned_return_date",
	"r.created_at", "r.updated_at",
	"r.ai_priority_score", "r.ai_tags", "r.ai_summary", "r.ai_needs_clarification",
	"e.full_name", "e.position",
	"d.inventory_number", "d.model", "d.status", "d.device_type_id", "t.name",
}

var requestList = db.ListQuery{
	Columns: map[string]string{
		"id":                "r.id",
		"status":            "r.status",
		"employee_id":       "r.employee_id",
		"device_id":         "r.device_id",
		"created_at":        "r.created_at",
		"ai_priority_score": "r.ai_priority_score",
	},
	SearchIn:     []string{"r.purpose"},
	DefaultOrder: []string{"r.created_at DESC", "r.id DESC"},
}

type RequestRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Request, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error)
	Create(ctx context.Context, tx pgx.Tx, req entities.Request) (uint64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus) error
	UpdatePlannedReturnDate(ctx context.Context, tx pgx.Tx, id uint64, date time.Time) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	// HasOtherPending проверяет, есть ли ожидающая заявка на устройство, кроме excludeID.
	HasOtherPending(ctx context.Context, tx pgx.Tx, deviceID, excludeID uint64) (bool, error)
	// HoldsDevice проверяет, есть ли у сотрудника одобренная заявка на устройство.
	HoldsDevice(ctx context.Context, tx pgx.Tx, deviceID, employeeID uint64) (bool, error)
	HeldDeviceIDs(ctx context.Context, employeeID uint64) ([]uint64, error)
	UpdateTriage(ctx context.Context, id uint64, triage entities.RequestTriage) error
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

func scanRequest(row pgx.Row) (*entities.Request, error) {
	var req entities.Request
	emp := &entities.Employee{}
	dev := &entities.Device{DeviceType: &entities.DeviceType{}}

	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.DeviceID, &req.Status, &req.Purpose, &req.PlannedReturnDate,
		&req.CreatedAt, &req.UpdatedAt,
		&req.AIPriorityScore, &req.AITags, &req.AISummary, &req.AINeedsClarification,
		&emp.FullName, &emp.Position,
		&dev.InventoryNumber, &dev.Model, &dev.Status, &dev.DeviceTypeID, &dev.DeviceType.Name,
	)
	if err != nil {
		return nil, mapPgError(err)
	}
	emp.ID = req.EmployeeID
	dev.ID = req.DeviceID
	dev.DeviceType.ID = dev.DeviceTypeID
	req.Employee = emp
	req.Device = dev
	return &req, nil
}

func (r *RequestRepository) baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(requestSelectFields...).
		From("requests r").
		Join("employees e ON e.id = r.employee_id").
		Join("devices d ON d.id = r.device_id").
		Join("device_types t ON t.id = d.device_type_id")
}

func (r *RequestRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Request, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	sqlCount, argsCount, err := requestList.Filtered(psql.Select("COUNT(r.id)").From("requests r"), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Request{}, 0, nil
	}

	query, args, err := requestList.Paged(r.baseSelect(), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]entities.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, total, rows.Err()
}

func (r *RequestRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error) {
	query, args, err := r.baseSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(getQuerier(tx, r.storage).QueryRow(ctx, query, args...))
}

func (r *RequestRepository) Create(ctx context.Context, tx pgx.Tx, req entities.Request) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (employee_id, device_id, status, purpose, planned_return_date)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`, requestTable)

	var id uint64
	err := getQuerier(tx, r.storage).QueryRow(ctx, query,
		req.EmployeeID, req.DeviceID, string(req.Status), req.Purpose, req.PlannedReturnDate,
	).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus) error {
	query := fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2", requestTable)
	return r.execOne(ctx, tx, query, string(status), id)
}

func (r *RequestRepository) UpdatePlannedReturnDate(ctx context.Context, tx pgx.Tx, id uint64, date time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET planned_return_date = $1, updated_at = NOW() WHERE id = $2", requestTable)
	return r.execOne(ctx, tx, query, date, id)
}

func (r *RequestRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return r.execOne(ctx, tx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", requestTable), id)
}

func (r *RequestRepository) execOne(ctx context.Context, tx pgx.Tx, query string, args ...interface{}) error {
	result, err := getQuerier(tx, r.storage).Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

func (r *RequestRepository) HasOtherPending(ctx context.Context, tx pgx.Tx, deviceID, excludeID uint64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE device_id = $1 AND status = $2 AND id <> $3
		)`, requestTable)
	var exists bool
	err := getQuerier(tx, r.storage).QueryRow(ctx, query, deviceID, string(constants.RequestStatusPending), excludeID).Scan(&exists)
	return exists, err
}

func (r *RequestRepository) HoldsDevice(ctx context.Context, tx pgx.Tx, deviceID, employeeID uint64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE device_id = $1 AND employee_id = $2 AND status = $3
		)`, requestTable)
	var exists bool
	err := getQuerier(tx, r.storage).QueryRow(ctx, query, deviceID, employeeID, string(constants.RequestStatusApproved)).Scan(&exists)
	return exists, err
}

func (r *RequestRepository) HeldDeviceIDs(ctx context.Context, employeeID uint64) ([]uint64, error) {
	query := fmt.Sprintf("SELECT DISTINCT device_id FROM %s WHERE employee_id = $1 AND status = $2", requestTable)
	rows, err := r.storage.Query(ctx, query, employeeID, string(constants.RequestStatusApproved))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RequestRepository) UpdateTriage(ctx context.Context, id uint64, triage entities.RequestTriage) error {
	tags := triage.Tags
	if tags == nil {
		tags = []string{}
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET ai_priority_score = $1, ai_tags = $2, ai_summary = $3, ai_needs_clarification = $4
		WHERE id = $5`, requestTable)
	// updated_at не меняем: это не действие пользователя
	return r.execOne(ctx, nil, query, triage.PriorityScore, tags, triage.Summary, triage.NeedsClarification, id)
}
