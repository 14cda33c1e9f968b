package services

import (
	"context"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	"assetflow/pkg/types"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

type DeviceTypeServiceInterface interface {
	GetDeviceTypes(ctx context.Context, filter types.Filter) ([]entities.DeviceType, uint64, error)
	FindDeviceType(ctx context.Context, id uint64) (*entities.DeviceType, error)
	CreateDeviceType(ctx context.Context, in dto.CreateDeviceTypeDTO) (*entities.DeviceType, error)
	UpdateDeviceType(ctx context.Context, id uint64, in dto.UpdateDeviceTypeDTO) (*entities.DeviceType, error)
	DeleteDeviceType(ctx context.Context, id uint64) error
}

type DeviceTypeService struct {
	*BaseService
	repo   repositories.DeviceTypeRepositoryInterface
	logger *zap.Logger
}

func NewDeviceTypeService(base *BaseService, repo repositories.DeviceTypeRepositoryInterface, logger *zap.Logger) DeviceTypeServiceInterface {
	return &DeviceTypeService{BaseService: base, repo: repo, logger: logger}
}

func (s *DeviceTypeService) GetDeviceTypes(ctx context.Context, filter types.Filter) ([]entities.DeviceType, uint64, error) {
	if _, err := s.Authorize(ctx, constants.AllRoles...); err != nil {
		return nil, 0, err
	}
	return s.repo.GetAll(ctx, filter)
}

func (s *DeviceTypeService) FindDeviceType(ctx context.Context, id uint64) (*entities.DeviceType, error) {
	if _, err := s.Authorize(ctx, constants.AllRoles...); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *DeviceTypeService) CreateDeviceType(ctx context.Context, in dto.CreateDeviceTypeDTO) (*entities.DeviceType, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, entities.DeviceType{Name: in.Name, Description: in.Description})
	if err != nil {
		s.logger.Error("Ошибка при создании типа оборудования", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *DeviceTypeService) UpdateDeviceType(ctx context.Context, id uint64, in dto.UpdateDeviceTypeDTO) (*entities.DeviceType, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		current.Name = *in.Name
	}
	if in.Description != nil {
		current.Description = null.NewString(*in.Description, *in.Description != "")
	}

	if err := s.repo.Update(ctx, *current); err != nil {
		s.logger.Error("Ошибка при обновлении типа оборудования", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// DeleteDeviceType: тип, к которому привязано оборудование, не удаляется (ValidationError из хранилища).
func (s *DeviceTypeService) DeleteDeviceType(ctx context.Context, id uint64) error {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("Тип оборудования не удалён", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("Тип оборудования удалён", zap.Uint64("id", id))
	return nil
}
