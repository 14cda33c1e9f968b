package services

import (
	"context"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/types"
	"assetflow/pkg/utils"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

const (
	DeviceStatsCacheKey = "devices:stats"
	deviceStatsTTL      = 30 * time.Second
)

type DeviceServiceInterface interface {
	ListDevices(ctx context.Context, filter types.Filter) (*dto.DeviceListDTO, error)
	FindDevice(ctx context.Context, id uint64) (*entities.Device, error)
	CreateDevice(ctx context.Context, in dto.CreateDeviceDTO) (*entities.Device, error)
	UpdateDevice(ctx context.Context, id uint64, in dto.UpdateDeviceDTO) (*entities.Device, error)
	DeleteDevice(ctx context.Context, id uint64) error
	InvalidateStats(ctx context.Context)
}

type DeviceService struct {
	*BaseService
	deviceRepo  repositories.DeviceRepositoryInterface
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewDeviceService(
	base *BaseService,
	deviceRepo repositories.DeviceRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	logger *zap.Logger,
) DeviceServiceInterface {
	return &DeviceService{
		BaseService: base,
		deviceRepo:  deviceRepo,
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// ListDevices - инвентарь со сводкой по статусам и отметкой устройств, которые сейчас у пользователя.
// Сотрудник списанное оборудование не видит.
func (s *DeviceService) ListDevices(ctx context.Context, filter types.Filter) (*dto.DeviceListDTO, error) {
	identity, err := s.Authorize(ctx, constants.RoleAdmin, constants.RoleTech, constants.RoleEmployee)
	if err != nil {
		return nil, err
	}

	if identity.Role == constants.RoleEmployee {
		if filter.Filter == nil {
			filter.Filter = map[string]interface{}{}
		}
		filter.Filter["is_written_off"] = false
	}

	devices, total, err := s.deviceRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка получения списка оборудования", zap.Error(err))
		return nil, err
	}

	stats, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}

	held := make(map[uint64]bool)
	if identity.EmployeeID != nil {
		ids, err := s.requestRepo.HeldDeviceIDs(ctx, *identity.EmployeeID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			held[id] = true
		}
	}

	return &dto.DeviceListDTO{
		Devices:       devices,
		Total:         total,
		Stats:         stats,
		UserHasDevice: held,
	}, nil
}

func (s *DeviceService) stats(ctx context.Context) (dto.DeviceStatsDTO, error) {
	var stats dto.DeviceStatsDTO
	if s.CacheGet(ctx, DeviceStatsCacheKey, &stats) {
		return stats, nil
	}
	stats, err := s.deviceRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("Ошибка подсчёта статистики оборудования", zap.Error(err))
		return stats, err
	}
	s.CacheSet(ctx, DeviceStatsCacheKey, stats, deviceStatsTTL)
	return stats, nil
}

// InvalidateStats сбрасывает закешированную сводку. Вызывается при смене статуса устройства.
func (s *DeviceService) InvalidateStats(ctx context.Context) {
	s.CacheDel(ctx, DeviceStatsCacheKey)
}

func (s *DeviceService) FindDevice(ctx context.Context, id uint64) (*entities.Device, error) {
	if _, err := s.Authorize(ctx, constants.AllRoles...); err != nil {
		return nil, err
	}
	return s.deviceRepo.FindByID(ctx, nil, id)
}

func (s *DeviceService) CreateDevice(ctx context.Context, in dto.CreateDeviceDTO) (*entities.Device, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	purchaseDate, err := utils.ParseOptionalDate(in.PurchaseDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Неверная дата покупки: %s", in.PurchaseDate)
	}

	device := entities.Device{
		InventoryNumber:     in.InventoryNumber,
		Model:               in.Model,
		DeviceTypeID:        in.DeviceTypeID,
		Status:              constants.DeviceStatusAvailable,
		PurchaseDate:        purchaseDate,
		ResponsiblePersonID: null.Uint64FromPtr(in.ResponsiblePersonID),
	}

	id, err := s.deviceRepo.Create(ctx, nil, device)
	if err != nil {
		s.logger.Error("Ошибка при создании оборудования", zap.String("inventory", in.InventoryNumber), zap.Error(err))
		return nil, err
	}
	s.InvalidateStats(ctx)

	s.logger.Info("Оборудование добавлено", zap.Uint64("id", id), zap.String("inventory", in.InventoryNumber))
	return s.deviceRepo.FindByID(ctx, nil, id)
}

// UpdateDevice меняет карточку. Статус меняется только через операции с заявками и ремонтами.
func (s *DeviceService) UpdateDevice(ctx context.Context, id uint64, in dto.UpdateDeviceDTO) (*entities.Device, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	device, err := s.deviceRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if in.InventoryNumber != nil {
		device.InventoryNumber = *in.InventoryNumber
	}
	if in.Model != nil {
		device.Model = *in.Model
	}
	if in.DeviceTypeID != nil {
		device.DeviceTypeID = *in.DeviceTypeID
	}
	if in.PurchaseDate != nil {
		if device.PurchaseDate, err = utils.ParseOptionalDate(*in.PurchaseDate); err != nil {
			return nil, apperrors.NewValidationError("Неверная дата покупки: %s", *in.PurchaseDate)
		}
	}
	if in.ResponsiblePersonID != nil {
		device.ResponsiblePersonID = null.Uint64From(*in.ResponsiblePersonID)
	}

	if err := s.deviceRepo.Update(ctx, *device); err != nil {
		s.logger.Error("Ошибка при обновлении оборудования", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	return s.deviceRepo.FindByID(ctx, nil, id)
}

// DeleteDevice: оборудование с заявками не удаляется, для него есть списание.
func (s *DeviceService) DeleteDevice(ctx context.Context, id uint64) error {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return err
	}
	if err := s.deviceRepo.Delete(ctx, id); err != nil {
		s.logger.Warn("Оборудование не удалено", zap.Uint64("id", id), zap.Error(err))
		return err
	}
	s.InvalidateStats(ctx)
	s.logger.Info("Оборудование удалено", zap.Uint64("id", id))
	return nil
}
