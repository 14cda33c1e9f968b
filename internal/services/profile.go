package services

import (
	"context"
	"errors"

	"assetflow/internal/dto"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"

	"go.uber.org/zap"
)

// ProfileService определяет роль и привязку к сотруднику для логина.
// Роль вычисляется один раз при входе и дальше едет в токене.
type ProfileService struct {
	profileRepo  repositories.ProfileRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	logger       *zap.Logger
}

func NewProfileService(
	profileRepo repositories.ProfileRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, employeeRepo: employeeRepo, logger: logger.Named("profile")}
}

// ResolveRole возвращает роль пользователя. Логин без профиля получает constants.DefaultRole,
// профиль при этом создаётся, и это фиксируется в логе.
func (s *ProfileService) ResolveRole(ctx context.Context, userID uint64) (constants.Role, error) {
	profile, created, err := s.profileRepo.CreateIfMissing(ctx, userID, constants.DefaultRole)
	if err != nil {
		s.logger.Error("Не удалось получить профиль", zap.Uint64("userID", userID), zap.Error(err))
		return "", err
	}
	if created {
		s.logger.Info("Профиль создан с ролью по умолчанию",
			zap.Uint64("userID", userID),
			zap.String("role", string(constants.DefaultRole)),
		)
	}
	if !profile.Role.Valid() {
		s.logger.Warn("В профиле неизвестная роль, используется роль по умолчанию",
			zap.Uint64("userID", userID),
			zap.String("role", string(profile.Role)),
		)
		return constants.DefaultRole, nil
	}
	return profile.Role, nil
}

// ResolveIdentity собирает Identity: роль и id сотрудника, если логин к нему привязан.
func (s *ProfileService) ResolveIdentity(ctx context.Context, userID uint64) (dto.Identity, error) {
	role, err := s.ResolveRole(ctx, userID)
	if err != nil {
		return dto.Identity{}, err
	}

	identity := dto.Identity{UserID: userID, Role: role}
	employee, err := s.employeeRepo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		id := employee.ID
		identity.EmployeeID = &id
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return dto.Identity{}, err
	}
	return identity, nil
}
