package services

import (
	"context"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/types"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, in dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, in dto.UpdateEmployeeDTO) (*entities.Employee, error)
}

type EmployeeService struct {
	*BaseService
	repo   repositories.EmployeeRepositoryInterface
	logger *zap.Logger
}

func NewEmployeeService(base *BaseService, repo repositories.EmployeeRepositoryInterface, logger *zap.Logger) EmployeeServiceInterface {
	return &EmployeeService{BaseService: base, repo: repo, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin, constants.RoleTech, constants.RoleAnalyst); err != nil {
		return nil, 0, err
	}
	return s.repo.GetAll(ctx, filter)
}

// FindEmployee: сотрудник может смотреть только свою карточку.
func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	identity, err := s.Authorize(ctx, constants.AllRoles...)
	if err != nil {
		return nil, err
	}
	if identity.Role == constants.RoleEmployee && (identity.EmployeeID == nil || *identity.EmployeeID != id) {
		return nil, apperrors.ErrForbidden
	}
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, in dto.CreateEmployeeDTO) (*entities.Employee, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, nil, entities.Employee{
		FullName:   in.FullName,
		Position:   in.Position,
		Department: in.Department,
		Email:      in.Email,
		UserID:     null.Uint64FromPtr(in.UserID),
	})
	if err != nil {
		s.logger.Error("Ошибка при создании сотрудника", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Сотрудник добавлен", zap.Uint64("id", id))
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, in dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	employee, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		employee.FullName = *in.FullName
	}
	if in.Position != nil {
		employee.Position = *in.Position
	}
	if in.Department != nil {
		employee.Department = null.NewString(*in.Department, *in.Department != "")
	}
	if in.Email != nil {
		employee.Email = *in.Email
	}
	if in.UserID != nil {
		employee.UserID = null.Uint64From(*in.UserID)
	}

	if err := s.repo.Update(ctx, *employee); err != nil {
		s.logger.Error("Ошибка при обновлении сотрудника", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return s.repo.FindByID(ctx, nil, id)
}
