package repositories

import (
	"context"
	"fmt"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/pkg/constants"
	"assetflow/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	userTable  = "users"
	userFields = "id, username, password_hash, created_at"
)

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error)
	List(ctx context.Context) ([]dto.UserDTO, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE username = $1", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, username))
}

func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	query := fmt.Sprintf("INSERT INTO %s (username, password_hash) VALUES ($1, $2) RETURNING id", userTable)
	var id uint64
	if err := getQuerier(tx, r.storage).QueryRow(ctx, query, user.Username, user.PasswordHash).Scan(&id); err != nil {
		r.logger.Warn("Не удалось создать пользователя", zap.String("username", user.Username), zap.Error(err))
		return 0, mapPgError(err)
	}
	return id, nil
}

// List отдаёт пользователей вместе с ролью и привязанным сотрудником.
func (r *UserRepository) List(ctx context.Context) ([]dto.UserDTO, error) {
	query := `
		SELECT u.id, u.username, COALESCE(p.role, $1), e.id, u.created_at
		FROM users u
		LEFT JOIN user_profiles p ON p.user_id = u.id
		LEFT JOIN employees e ON e.user_id = u.id
		ORDER BY u.username`
	rows, err := r.storage.Query(ctx, query, string(constants.DefaultRole))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]dto.UserDTO, 0)
	for rows.Next() {
		var u entities.User
		var role string
		var employeeID *uint64
		if err := rows.Scan(&u.ID, &u.Username, &role, &employeeID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, dto.UserDTO{
			ID:         u.ID,
			Username:   u.Username,
			Role:       role,
			EmployeeID: employeeID,
			CreatedAt:  utils.FormatDateTime(u.CreatedAt),
		})
	}
	return users, rows.Err()
}
