package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/events"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/eventbus"
	"assetflow/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventPublisher - то, что нужно сервису от шины событий.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type WorkflowServiceInterface interface {
	CreateRequest(ctx context.Context, in dto.CreateRequestDTO) (*entities.Request, error)
	DecideRequest(ctx context.Context, requestID uint64, in dto.DecideRequestDTO) (*entities.Request, error)
	ReturnDevice(ctx context.Context, requestID uint64) (*entities.Request, error)
	DeleteRequest(ctx context.Context, requestID uint64) error
	ReportBreakdown(ctx context.Context, deviceID uint64, in dto.ReportBreakdownDTO) (*entities.Repair, error)
	CompleteRepair(ctx context.Context, repairID uint64) (*entities.Repair, error)
	RequestExtension(ctx context.Context, requestID uint64, in dto.CreateExtensionDTO) (*entities.Extension, error)
	ReviewExtension(ctx context.Context, extensionID uint64, in dto.ReviewExtensionDTO) (*entities.Extension, error)
	WriteOffDevice(ctx context.Context, deviceID uint64, in dto.WriteOffDeviceDTO) (*entities.Device, error)
}

// WorkflowService выполняет операции, меняющие состояние оборудования.
// Каждая операция - одна транзакция: блокировка строки устройства, проверка,
// изменение заявки/ремонта, пересчёт статуса устройства, запись в журнал.
// События публикуются только после коммита.
type WorkflowService struct {
	*BaseService
	txManager     repositories.TxManagerInterface
	deviceRepo    repositories.DeviceRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	repairRepo    repositories.RepairRepositoryInterface
	extensionRepo repositories.ExtensionRepositoryInterface
	movementRepo  repositories.MovementRepositoryInterface
	publisher     EventPublisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewWorkflowService(
	base *BaseService,
	txManager repositories.TxManagerInterface,
	deviceRepo repositories.DeviceRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	repairRepo repositories.RepairRepositoryInterface,
	extensionRepo repositories.ExtensionRepositoryInterface,
	movementRepo repositories.MovementRepositoryInterface,
	publisher EventPublisher,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		BaseService:   base,
		txManager:     txManager,
		deviceRepo:    deviceRepo,
		requestRepo:   requestRepo,
		repairRepo:    repairRepo,
		extensionRepo: extensionRepo,
		movementRepo:  movementRepo,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// operation накапливает побочные эффекты одной транзакции.
type operation struct {
	txID   uuid.UUID
	events []eventbus.Event
}

func newOperation() *operation {
	return &operation{txID: uuid.New()}
}

func (s *WorkflowService) publish(ctx context.Context, op *operation) {
	if s.publisher == nil {
		return
	}
	for _, e := range op.events {
		s.publisher.Publish(ctx, e)
	}
}

func (s *WorkflowService) recordMovement(ctx context.Context, tx pgx.Tx, op *operation, deviceID, employeeID uint64, movementType constants.MovementType, notes string) error {
	id, err := s.movementRepo.Append(ctx, tx, entities.EquipmentMovement{
		DeviceID:     deviceID,
		EmployeeID:   employeeID,
		MovementType: movementType,
		Notes:        notes,
		TxID:         op.txID,
	})
	if err != nil {
		return fmt.Errorf("запись в журнал движения: %w", err)
	}
	op.events = append(op.events, events.MovementRecordedEvent{
		MovementID:   id,
		DeviceID:     deviceID,
		MovementType: movementType,
		TxID:         op.txID,
	})
	return nil
}

func (s *WorkflowService) setDeviceStatus(ctx context.Context, tx pgx.Tx, op *operation, device *entities.Device, status constants.DeviceStatus) error {
	if device.Status == status {
		return nil
	}
	if err := s.deviceRepo.UpdateStatus(ctx, tx, device.ID, status); err != nil {
		return fmt.Errorf("обновление статуса устройства: %w", err)
	}
	op.events = append(op.events, events.DeviceStatusChangedEvent{DeviceID: device.ID, From: device.Status, To: status})
	device.Status = status
	return nil
}

// lockRequest блокирует устройство заявки и перечитывает заявку под блокировкой.
// Все изменения заявок идут через блокировку устройства, поэтому перечитанное состояние актуально.
func (s *WorkflowService) lockRequest(ctx context.Context, tx pgx.Tx, requestID uint64) (*entities.Request, *entities.Device, error) {
	req, err := s.requestRepo.FindByID(ctx, tx, requestID)
	if err != nil {
		return nil, nil, err
	}
	device, err := s.deviceRepo.FindForUpdate(ctx, tx, req.DeviceID)
	if err != nil {
		return nil, nil, err
	}
	req, err = s.requestRepo.FindByID(ctx, tx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return req, device, nil
}

func actorEmployeeID(identity dto.Identity) (uint64, error) {
	if identity.EmployeeID == nil {
		return 0, apperrors.ErrEmployeeProfileNotFound
	}
	return *identity.EmployeeID, nil
}

func (s *WorkflowService) CreateRequest(ctx context.Context, in dto.CreateRequestDTO) (*entities.Request, error) {
	identity, err := s.Authorize(ctx, constants.RoleEmployee)
	if err != nil {
		return nil, err
	}
	employeeID, err := actorEmployeeID(identity)
	if err != nil {
		return nil, err
	}
	plannedReturn, err := utils.ParseOptionalDate(in.PlannedReturnDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Неверная дата возврата: %s", in.PlannedReturnDate)
	}

	op := newOperation()
	var requestID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		device, err := s.deviceRepo.FindForUpdate(ctx, tx, in.DeviceID)
		if err != nil {
			return err
		}
		otherPending, err := s.requestRepo.HasOtherPending(ctx, tx, device.ID, 0)
		if err != nil {
			return err
		}
		if err := ValidateRequestPlacement(device, constants.RequestStatusPending, otherPending); err != nil {
			return err
		}

		requestID, err = s.requestRepo.Create(ctx, tx, entities.Request{
			EmployeeID:        employeeID,
			DeviceID:          device.ID,
			Status:            constants.RequestStatusPending,
			Purpose:           in.Purpose,
			PlannedReturnDate: plannedReturn,
		})
		return err
	})
	if err != nil {
		s.logFailure("CreateRequest", err, zap.Uint64("deviceID", in.DeviceID), zap.Uint64("employeeID", employeeID))
		return nil, err
	}

	op.events = append(op.events, events.RequestCreatedEvent{RequestID: requestID})
	s.publish(ctx, op)

	s.logger.Info("Заявка создана", zap.Uint64("requestID", requestID), zap.Uint64("deviceID", in.DeviceID))
	return s.requestRepo.FindByID(ctx, nil, requestID)
}

func (s *WorkflowService) DecideRequest(ctx context.Context, requestID uint64, in dto.DecideRequestDTO) (*entities.Request, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}
	next := constants.RequestStatus(in.Status)
	if next != constants.RequestStatusApproved && next != constants.RequestStatusRejected {
		return nil, apperrors.NewValidationError("Недопустимое решение по заявке: %q", in.Status)
	}

	op := newOperation()
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, device, err := s.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		prev := req.Status
		switch {
		case prev == constants.RequestStatusPending:
		case prev == constants.RequestStatusApproved && next == constants.RequestStatusRejected:
		default:
			return apperrors.NewValidationError("Заявку в статусе %q нельзя перевести в %q", prev, next)
		}

		if next == constants.RequestStatusApproved && (device.Status != constants.DeviceStatusAvailable || device.IsWrittenOff) {
			return apperrors.NewValidationError("Оборудование %s недоступно для выдачи", device.InventoryNumber)
		}

		if err := s.requestRepo.UpdateStatus(ctx, tx, req.ID, next); err != nil {
			return err
		}

		hasOpenRepair := false
		if prev == constants.RequestStatusApproved {
			if hasOpenRepair, err = s.repairRepo.HasOpenRepair(ctx, tx, device.ID, 0); err != nil {
				return err
			}
		}
		if status, changed := DeviceStatusOnRequestChange(&prev, next, hasOpenRepair); changed {
			if err := s.setDeviceStatus(ctx, tx, op, device, status); err != nil {
				return err
			}
		}

		if next == constants.RequestStatusApproved {
			return s.recordMovement(ctx, tx, op, device.ID, req.EmployeeID, constants.MovementIssue,
				fmt.Sprintf("Выдача по заявке #%d", req.ID))
		}
		return nil
	})
	if err != nil {
		s.logFailure("DecideRequest", err, zap.Uint64("requestID", requestID), zap.String("status", in.Status))
		return nil, err
	}

	s.publish(ctx, op)
	s.logger.Info("Решение по заявке принято", zap.Uint64("requestID", requestID), zap.String("status", in.Status))
	return s.requestRepo.FindByID(ctx, nil, requestID)
}

func (s *WorkflowService) ReturnDevice(ctx context.Context, requestID uint64) (*entities.Request, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	op := newOperation()
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, device, err := s.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.Status != constants.RequestStatusApproved {
			return apperrors.NewValidationError("Вернуть можно только выданное оборудование, статус заявки: %q", req.Status)
		}

		prev := req.Status
		if err := s.requestRepo.UpdateStatus(ctx, tx, req.ID, constants.RequestStatusCompleted); err != nil {
			return err
		}
		hasOpenRepair, err := s.repairRepo.HasOpenRepair(ctx, tx, device.ID, 0)
		if err != nil {
			return err
		}
		if status, changed := DeviceStatusOnRequestChange(&prev, constants.RequestStatusCompleted, hasOpenRepair); changed {
			if err := s.setDeviceStatus(ctx, tx, op, device, status); err != nil {
				return err
			}
		}
		return s.recordMovement(ctx, tx, op, device.ID, req.EmployeeID, constants.MovementReturn,
			fmt.Sprintf("Возврат по заявке #%d", req.ID))
	})
	if err != nil {
		s.logFailure("ReturnDevice", err, zap.Uint64("requestID", requestID))
		return nil, err
	}

	s.publish(ctx, op)
	s.logger.Info("Оборудование возвращено", zap.Uint64("requestID", requestID))
	return s.requestRepo.FindByID(ctx, nil, requestID)
}

// DeleteRequest - административное удаление. Одобренная заявка освобождает устройство.
func (s *WorkflowService) DeleteRequest(ctx context.Context, requestID uint64) error {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return err
	}

	op := newOperation()
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, device, err := s.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := s.requestRepo.Delete(ctx, tx, req.ID); err != nil {
			return err
		}

		if req.Status != constants.RequestStatusApproved {
			return nil
		}
		hasOpenRepair, err := s.repairRepo.HasOpenRepair(ctx, tx, device.ID, 0)
		if err != nil {
			return err
		}
		if status, changed := DeviceStatusOnRequestDelete(req.Status, hasOpenRepair); changed {
			return s.setDeviceStatus(ctx, tx, op, device, status)
		}
		return nil
	})
	if err != nil {
		s.logFailure("DeleteRequest", err, zap.Uint64("requestID", requestID))
		return err
	}

	s.publish(ctx, op)
	s.logger.Info("Заявка удалена", zap.Uint64("requestID", requestID))
	return nil
}

func (s *WorkflowService) ReportBreakdown(ctx context.Context, deviceID uint64, in dto.ReportBreakdownDTO) (*entities.Repair, error) {
	identity, err := s.Authorize(ctx, constants.RoleEmployee)
	if err != nil {
		return nil, err
	}
	employeeID, err := actorEmployeeID(identity)
	if err != nil {
		return nil, err
	}

	op := newOperation()
	var repairID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		device, err := s.deviceRepo.FindForUpdate(ctx, tx, deviceID)
		if err != nil {
			return err
		}

		holds, err := s.requestRepo.HoldsDevice(ctx, tx, device.ID, employeeID)
		if err != nil {
			return err
		}
		if !holds {
			return apperrors.ErrForbidden
		}
		if device.Status != constants.DeviceStatusInUse {
			return apperrors.NewValidationError("Сообщить о поломке можно только по оборудованию в использовании, текущий статус %q", device.Status)
		}

		repairID, err = s.repairRepo.Create(ctx, tx, entities.Repair{
			DeviceID:     device.ID,
			ReportedByID: employeeID,
			Description:  in.Description,
		})
		if err != nil {
			return err
		}
		if err := s.setDeviceStatus(ctx, tx, op, device, constants.DeviceStatusBroken); err != nil {
			return err
		}
		return s.recordMovement(ctx, tx, op, device.ID, employeeID, constants.MovementRepair, in.Description)
	})
	if err != nil {
		s.logFailure("ReportBreakdown", err, zap.Uint64("deviceID", deviceID), zap.Uint64("employeeID", employeeID))
		return nil, err
	}

	s.publish(ctx, op)
	s.logger.Info("Зарегистрирована поломка", zap.Uint64("deviceID", deviceID), zap.Uint64("repairID", repairID))
	return s.repairRepo.FindByID(ctx, nil, repairID)
}

// CompleteRepair закрывает ремонт. Устройство становится свободным,
// если на нём не осталось других открытых ремонтов.
func (s *WorkflowService) CompleteRepair(ctx context.Context, repairID uint64) (*entities.Repair, error) {
	identity, err := s.Authorize(ctx, constants.RoleTech)
	if err != nil {
		return nil, err
	}

	op := newOperation()
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		repair, err := s.repairRepo.FindByID(ctx, tx, repairID)
		if err != nil {
			return err
		}
		device, err := s.deviceRepo.FindForUpdate(ctx, tx, repair.DeviceID)
		if err != nil {
			return err
		}
		if repair, err = s.repairRepo.FindByID(ctx, tx, repairID); err != nil {
			return err
		}
		if repair.Status != constants.RepairStatusRepairing {
			return apperrors.NewValidationError("Ремонт #%d уже завершён", repair.ID)
		}

		if err := s.repairRepo.Complete(ctx, tx, repair.ID, identity.UserID, s.now()); err != nil {
			return err
		}
		otherOpen, err := s.repairRepo.HasOpenRepair(ctx, tx, device.ID, repair.ID)
		if err != nil {
			return err
		}
		return s.setDeviceStatus(ctx, tx, op, device, RecoveredDeviceStatus(otherOpen))
	})
	if err != nil {
		s.logFailure("CompleteRepair", err, zap.Uint64("repairID", repairID))
		return nil, err
	}

	s.publish(ctx, op)
	s.logger.Info("Ремонт завершён", zap.Uint64("repairID", repairID), zap.Uint64("techID", identity.UserID))
	return s.repairRepo.FindByID(ctx, nil, repairID)
}

func (s *WorkflowService) RequestExtension(ctx context.Context, requestID uint64, in dto.CreateExtensionDTO) (*entities.Extension, error) {
	identity, err := s.Authorize(ctx, constants.RoleEmployee)
	if err != nil {
		return nil, err
	}
	employeeID, err := actorEmployeeID(identity)
	if err != nil {
		return nil, err
	}
	newDate, err := utils.ParseOptionalDate(in.NewReturnDate)
	if err != nil || !newDate.Valid {
		return nil, apperrors.NewValidationError("Неверная дата возврата: %s", in.NewReturnDate)
	}

	var extensionID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.EmployeeID != employeeID {
			return apperrors.ErrForbidden
		}
		if req.Status != constants.RequestStatusApproved {
			return apperrors.NewValidationError("Продлить можно только выданное оборудование, статус заявки: %q", req.Status)
		}
		extensionID, err = s.extensionRepo.Create(ctx, tx, entities.Extension{
			RequestID:     req.ID,
			NewReturnDate: newDate.Time,
			Reason:        in.Reason,
			Status:        constants.RequestStatusPending,
		})
		return err
	})
	if err != nil {
		s.logFailure("RequestExtension", err, zap.Uint64("requestID", requestID))
		return nil, err
	}

	s.logger.Info("Запрошено продление", zap.Uint64("requestID", requestID), zap.Uint64("extensionID", extensionID))
	return s.extensionRepo.FindByID(ctx, nil, extensionID)
}

// ReviewExtension: одобренное продление переносит дату возврата в заявке.
func (s *WorkflowService) ReviewExtension(ctx context.Context, extensionID uint64, in dto.ReviewExtensionDTO) (*entities.Extension, error) {
	identity, err := s.Authorize(ctx, constants.RoleAdmin)
	if err != nil {
		return nil, err
	}
	decision := constants.RequestStatus(in.Status)
	if decision != constants.RequestStatusApproved && decision != constants.RequestStatusRejected {
		return nil, apperrors.NewValidationError("Недопустимое решение по продлению: %q", in.Status)
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ext, err := s.extensionRepo.FindByID(ctx, tx, extensionID)
		if err != nil {
			return err
		}
		req, _, err := s.lockRequest(ctx, tx, ext.RequestID)
		if err != nil {
			return err
		}
		if ext, err = s.extensionRepo.FindByID(ctx, tx, extensionID); err != nil {
			return err
		}
		if ext.Status != constants.RequestStatusPending {
			return apperrors.NewValidationError("Продление #%d уже рассмотрено", ext.ID)
		}

		if decision == constants.RequestStatusApproved {
			if req.Status != constants.RequestStatusApproved {
				return apperrors.NewValidationError("Заявка #%d уже закрыта, продление невозможно", req.ID)
			}
			if err := s.requestRepo.UpdatePlannedReturnDate(ctx, tx, req.ID, ext.NewReturnDate); err != nil {
				return err
			}
		}
		return s.extensionRepo.UpdateStatus(ctx, tx, ext.ID, decision, identity.UserID)
	})
	if err != nil {
		s.logFailure("ReviewExtension", err, zap.Uint64("extensionID", extensionID))
		return nil, err
	}

	s.logger.Info("Продление рассмотрено", zap.Uint64("extensionID", extensionID), zap.String("status", in.Status))
	return s.extensionRepo.FindByID(ctx, nil, extensionID)
}

// WriteOffDevice списывает оборудование. Выданное или зарезервированное списать нельзя.
func (s *WorkflowService) WriteOffDevice(ctx context.Context, deviceID uint64, in dto.WriteOffDeviceDTO) (*entities.Device, error) {
	identity, err := s.Authorize(ctx, constants.RoleAdmin)
	if err != nil {
		return nil, err
	}

	op := newOperation()
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		device, err := s.deviceRepo.FindForUpdate(ctx, tx, deviceID)
		if err != nil {
			return err
		}
		if device.IsWrittenOff {
			return apperrors.NewValidationError("Оборудование %s уже списано", device.InventoryNumber)
		}
		if device.Status == constants.DeviceStatusInUse {
			return apperrors.NewValidationError("Оборудование %s выдано сотруднику, сначала оформите возврат", device.InventoryNumber)
		}
		pending, err := s.requestRepo.HasOtherPending(ctx, tx, device.ID, 0)
		if err != nil {
			return err
		}
		if pending {
			return apperrors.NewValidationError("На оборудование %s есть ожидающая заявка", device.InventoryNumber)
		}

		var employeeID uint64
		switch {
		case device.ResponsiblePersonID.Valid:
			employeeID = device.ResponsiblePersonID.Uint64
		case identity.EmployeeID != nil:
			employeeID = *identity.EmployeeID
		default:
			return apperrors.NewValidationError("У оборудования %s нет ответственного сотрудника", device.InventoryNumber)
		}

		if err := s.deviceRepo.WriteOff(ctx, tx, device.ID, in.Reason, s.now()); err != nil {
			return err
		}
		return s.recordMovement(ctx, tx, op, device.ID, employeeID, constants.MovementWriteOff, in.Reason)
	})
	if err != nil {
		s.logFailure("WriteOffDevice", err, zap.Uint64("deviceID", deviceID))
		return nil, err
	}

	s.publish(ctx, op)
	s.logger.Info("Оборудование списано", zap.Uint64("deviceID", deviceID))
	return s.deviceRepo.FindByID(ctx, nil, deviceID)
}

// logFailure: отказы по бизнес-правилам и правам - warn, остальное - error.
func (s *WorkflowService) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	switch {
	case apperrors.IsValidation(err),
		errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrEmployeeProfileNotFound):
		s.logger.Warn("Операция отклонена", fields...)
	default:
		s.logger.Error("Ошибка операции", fields...)
	}
}
