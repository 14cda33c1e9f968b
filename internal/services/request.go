package services

import (
	"context"
	"strconv"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/types"

	"go.uber.org/zap"
)

// RequestQueryServiceInterface - чтение заявок, ремонтов и продлений для рабочих экранов.
type RequestQueryServiceInterface interface {
	FindRequest(ctx context.Context, id uint64) (*entities.Request, error)
	EmployeeRequests(ctx context.Context, employeeID uint64, filter types.Filter) ([]entities.Request, uint64, error)
	ManageRequests(ctx context.Context) (*dto.ManageRequestsDTO, error)
	ListOpenRepairs(ctx context.Context) ([]entities.Repair, error)
	ListExtensions(ctx context.Context, status string) ([]entities.Extension, error)
}

type RequestQueryService struct {
	*BaseService
	requestRepo   repositories.RequestRepositoryInterface
	repairRepo    repositories.RepairRepositoryInterface
	extensionRepo repositories.ExtensionRepositoryInterface
	logger        *zap.Logger
}

func NewRequestQueryService(
	base *BaseService,
	requestRepo repositories.RequestRepositoryInterface,
	repairRepo repositories.RepairRepositoryInterface,
	extensionRepo repositories.ExtensionRepositoryInterface,
	logger *zap.Logger,
) RequestQueryServiceInterface {
	return &RequestQueryService{
		BaseService:   base,
		requestRepo:   requestRepo,
		repairRepo:    repairRepo,
		extensionRepo: extensionRepo,
		logger:        logger,
	}
}

func (s *RequestQueryService) FindRequest(ctx context.Context, id uint64) (*entities.Request, error) {
	identity, err := s.Authorize(ctx, constants.AllRoles...)
	if err != nil {
		return nil, err
	}
	req, err := s.requestRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == constants.RoleEmployee && (identity.EmployeeID == nil || *identity.EmployeeID != req.EmployeeID) {
		return nil, apperrors.ErrForbidden
	}
	return req, nil
}

// EmployeeRequests - заявки сотрудника. Сотрудник видит только свои.
func (s *RequestQueryService) EmployeeRequests(ctx context.Context, employeeID uint64, filter types.Filter) ([]entities.Request, uint64, error) {
	identity, err := s.Authorize(ctx, constants.RoleAdmin, constants.RoleTech, constants.RoleEmployee)
	if err != nil {
		return nil, 0, err
	}
	if identity.Role == constants.RoleEmployee && (identity.EmployeeID == nil || *identity.EmployeeID != employeeID) {
		return nil, 0, apperrors.ErrForbidden
	}

	if filter.Filter == nil {
		filter.Filter = map[string]interface{}{}
	}
	filter.Filter["employee_id"] = strconv.FormatUint(employeeID, 10)
	if len(filter.Sort) == 0 {
		filter.Sort = map[string]string{"created_at": "desc"}
	}
	return s.requestRepo.GetAll(ctx, filter)
}

// ManageRequests - экран администратора: ожидающие решения и выданные заявки.
// К выданной заявке прикладывается открытый ремонт её оборудования.
func (s *RequestQueryService) ManageRequests(ctx context.Context) (*dto.ManageRequestsDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	pending, _, err := s.requestRepo.GetAll(ctx, types.Filter{
		Filter: map[string]interface{}{"status": string(constants.RequestStatusPending)},
		Sort:   map[string]string{"created_at": "asc"},
	})
	if err != nil {
		s.logger.Error("Ошибка получения ожидающих заявок", zap.Error(err))
		return nil, err
	}
	approved, _, err := s.requestRepo.GetAll(ctx, types.Filter{
		Filter: map[string]interface{}{"status": string(constants.RequestStatusApproved)},
		Sort:   map[string]string{"created_at": "desc"},
	})
	if err != nil {
		s.logger.Error("Ошибка получения выданных заявок", zap.Error(err))
		return nil, err
	}

	deviceIDs := make([]uint64, 0, len(approved))
	for _, r := range approved {
		deviceIDs = append(deviceIDs, r.DeviceID)
	}
	openRepairs := map[uint64]entities.Repair{}
	if len(deviceIDs) > 0 {
		if openRepairs, err = s.repairRepo.FindOpenByDevices(ctx, deviceIDs); err != nil {
			return nil, err
		}
	}

	active := make([]dto.ActiveRequestDTO, 0, len(approved))
	for _, r := range approved {
		item := dto.ActiveRequestDTO{Request: r}
		if repair, ok := openRepairs[r.DeviceID]; ok {
			repair := repair
			item.OpenRepair = &repair
		}
		active = append(active, item)
	}

	return &dto.ManageRequestsDTO{Pending: pending, Active: active}, nil
}

func (s *RequestQueryService) ListOpenRepairs(ctx context.Context) ([]entities.Repair, error) {
	if _, err := s.Authorize(ctx, constants.RoleTech, constants.RoleAdmin); err != nil {
		return nil, err
	}
	status := constants.RepairStatusRepairing
	return s.repairRepo.List(ctx, &status)
}

// ListExtensions: пустой status - все продления.
func (s *RequestQueryService) ListExtensions(ctx context.Context, status string) ([]entities.Extension, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	if status == "" {
		return s.extensionRepo.List(ctx, nil)
	}
	st := constants.RequestStatus(status)
	if !st.Valid() {
		return nil, apperrors.NewValidationError("Неизвестный статус продления: %q", status)
	}
	return s.extensionRepo.List(ctx, &st)
}
