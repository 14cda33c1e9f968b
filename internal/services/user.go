package services

import (
	"context"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	"assetflow/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]dto.UserDTO, error)
	CreateUser(ctx context.Context, in dto.CreateUserDTO) (*dto.UserDTO, error)
	ChangeRole(ctx context.Context, userID uint64, in dto.UpdateRoleDTO) error
}

type UserService struct {
	*BaseService
	txManager    repositories.TxManagerInterface
	userRepo     repositories.UserRepositoryInterface
	profileRepo  repositories.ProfileRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	logger       *zap.Logger
}

func NewUserService(
	base *BaseService,
	txManager repositories.TxManagerInterface,
	userRepo repositories.UserRepositoryInterface,
	profileRepo repositories.ProfileRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		BaseService:  base,
		txManager:    txManager,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context) ([]dto.UserDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx)
}

// CreateUser создаёт логин, его профиль с ролью и, если указан сотрудник, привязывает логин к нему.
func (s *UserService) CreateUser(ctx context.Context, in dto.CreateUserDTO) (*dto.UserDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := constants.Role(in.Role)

	var user entities.User
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.userRepo.Create(ctx, tx, entities.User{Username: in.Username, PasswordHash: hash})
		if err != nil {
			return err
		}
		user.ID = id
		if err := s.profileRepo.SetRole(ctx, tx, id, role); err != nil {
			return err
		}
		if in.EmployeeID != nil {
			return s.employeeRepo.LinkUser(ctx, tx, *in.EmployeeID, id)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Ошибка при создании пользователя", zap.String("username", in.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Пользователь создан",
		zap.Uint64("userID", user.ID),
		zap.String("username", in.Username),
		zap.String("role", in.Role),
	)
	created, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{
		ID:         created.ID,
		Username:   created.Username,
		Role:       in.Role,
		EmployeeID: in.EmployeeID,
		CreatedAt:  utils.FormatDateTime(created.CreatedAt),
	}, nil
}

// ChangeRole вступает в силу при следующем входе или обновлении токена.
func (s *UserService) ChangeRole(ctx context.Context, userID uint64, in dto.UpdateRoleDTO) error {
	admin, err := s.Authorize(ctx, constants.RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.profileRepo.SetRole(ctx, nil, userID, constants.Role(in.Role)); err != nil {
		s.logger.Error("Ошибка смены роли", zap.Uint64("userID", userID), zap.Error(err))
		return err
	}
	s.logger.Info("Роль пользователя изменена",
		zap.Uint64("userID", userID),
		zap.String("role", in.Role),
		zap.Uint64("changedBy", admin.UserID),
	)
	return nil
}
