package repositories

import (
	"context"

	"assetflow/internal/entities"
	"assetflow/pkg/constants"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID uint64) (*entities.UserProfile, error)
	// CreateIfMissing создаёт профиль с ролью role, если его нет. created = true, если профиль создан сейчас.
	CreateIfMissing(ctx context.Context, userID uint64, role constants.Role) (profile *entities.UserProfile, created bool, err error)
	SetRole(ctx context.Context, tx pgx.Tx, userID uint64, role constants.Role) error
}

type ProfileRepository struct {
	storage *pgxpool.Pool
}

func NewProfileRepository(storage *pgxpool.Pool) ProfileRepositoryInterface {
	return &ProfileRepository{storage: storage}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint64) (*entities.UserProfile, error) {
	var p entities.UserProfile
	err := r.storage.QueryRow(ctx, "SELECT user_id, role FROM user_profiles WHERE user_id = $1", userID).Scan(&p.UserID, &p.Role)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &p, nil
}

func (r *ProfileRepository) CreateIfMissing(ctx context.Context, userID uint64, role constants.Role) (*entities.UserProfile, bool, error) {
	var p entities.UserProfile
	err := r.storage.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING user_id, role`, userID, string(role)).Scan(&p.UserID, &p.Role)
	if err == nil {
		return &p, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, mapPgError(err)
	}
	// профиль уже был
	existing, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *ProfileRepository) SetRole(ctx context.Context, tx pgx.Tx, userID uint64, role constants.Role) error {
	_, err := getQuerier(tx, r.storage).Exec(ctx, `
		INSERT INTO user_profiles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`, userID, string(role))
	return mapPgError(err)
}
