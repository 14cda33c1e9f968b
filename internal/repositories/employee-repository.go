package repositories

import (
	"context"
	"fmt"

	"assetflow/internal/entities"
	db "assetflow/internal/infrastructure/bd"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	employeeTable  = "employees"
	employeeFields = "id, full_name, position, department, email, user_id, created_at"
)

var employeeList = db.ListQuery{
	Columns: map[string]string{
		"id":         "id",
		"full_name":  "full_name",
		"position":   "position",
		"department": "department",
		"created_at": "created_at",
	},
	SearchIn:     []string{"full_name", "email"},
	DefaultOrder: []string{"full_name ASC"},
}

type EmployeeRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	FindByUserID(ctx context.Context, userID uint64) (*entities.Employee, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error)
	Update(ctx context.Context, e entities.Employee) error
	// LinkUser привязывает логин к сотруднику. Логин уже привязанный к другому сотруднику
	// и сотрудник с другим логином - ValidationError.
	LinkUser(ctx context.Context, tx pgx.Tx, employeeID, userID uint64) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
}

func NewEmployeeRepository(storage *pgxpool.Pool) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.FullName, &e.Position, &e.Department, &e.Email, &e.UserID, &e.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	sqlCount, argsCount, err := employeeList.Filtered(psql.Select("COUNT(*)").From(employeeTable), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	query, args, err := employeeList.Paged(psql.Select(employeeFields).From(employeeTable), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *e)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", employeeFields, employeeTable)
	return scanEmployee(getQuerier(tx, r.storage).QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) FindByUserID(ctx context.Context, userID uint64) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1", employeeFields, employeeTable)
	return scanEmployee(r.storage.QueryRow(ctx, query, userID))
}

func (r *EmployeeRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (full_name, position, department, email, user_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`, employeeTable)
	var id uint64
	err := getQuerier(tx, r.storage).QueryRow(ctx, query, e.FullName, e.Position, e.Department, e.Email, e.UserID).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e entities.Employee) error {
	query := fmt.Sprintf(`
		UPDATE %s SET full_name = $1, position = $2, department = $3, email = $4, user_id = $5
		WHERE id = $6`, employeeTable)
	result, err := r.storage.Exec(ctx, query, e.FullName, e.Position, e.Department, e.Email, e.UserID, e.ID)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows)
	}
	return nil
}

// LinkUser привязывает логин к сотруднику. Чужую привязку не перезаписывает.
func (r *EmployeeRepository) LinkUser(ctx context.Context, tx pgx.Tx, employeeID, userID uint64) error {
	q := getQuerier(tx, r.storage)
	query := fmt.Sprintf(
		"UPDATE %s SET user_id = $1 WHERE id = $2 AND (user_id IS NULL OR user_id = $1)", employeeTable)
	result, err := q.Exec(ctx, query, userID, employeeID)
	if err != nil {
		return mapPgError(err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	existsQuery := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", employeeTable)
	if err := q.QueryRow(ctx, existsQuery, employeeID).Scan(&exists); err != nil {
		return mapPgError(err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.NewValidationError("Сотрудник уже привязан к другому логину")
}
