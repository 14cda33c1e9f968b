package services

import (
	"assetflow/internal/entities"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
)

// RecoveredDeviceStatus - статус устройства, которое больше никому не выдано.
// Единственное место, где решается "сломано или свободно".
func RecoveredDeviceStatus(hasOpenRepair bool) constants.DeviceStatus {
	if hasOpenRepair {
		return constants.DeviceStatusBroken
	}
	return constants.DeviceStatusAvailable
}

// DeviceStatusOnRequestChange вычисляет статус устройства при смене статуса заявки.
// prev == nil для новой заявки. Второе значение false - статус устройства не меняется.
func DeviceStatusOnRequestChange(prev *constants.RequestStatus, next constants.RequestStatus, hasOpenRepair bool) (constants.DeviceStatus, bool) {
	wasApproved := prev != nil && *prev == constants.RequestStatusApproved

	switch {
	case next == constants.RequestStatusApproved:
		if wasApproved {
			return "", false
		}
		return constants.DeviceStatusInUse, true
	case next == constants.RequestStatusCompleted:
		return RecoveredDeviceStatus(hasOpenRepair), true
	case wasApproved:
		// уход из approved в rejected или pending
		return RecoveredDeviceStatus(hasOpenRepair), true
	}
	return "", false
}

// DeviceStatusOnRequestDelete: удаление одобренной заявки освобождает устройство.
func DeviceStatusOnRequestDelete(deleted constants.RequestStatus, hasOpenRepair bool) (constants.DeviceStatus, bool) {
	if deleted != constants.RequestStatusApproved {
		return "", false
	}
	return RecoveredDeviceStatus(hasOpenRepair), true
}

// ValidateRequestPlacement проверяет, может ли заявка со статусом requested висеть на устройстве.
// otherPendingExists считается без учёта самой проверяемой заявки.
func ValidateRequestPlacement(device *entities.Device, requested constants.RequestStatus, otherPendingExists bool) error {
	if requested != constants.RequestStatusPending {
		return nil
	}
	if device.IsWrittenOff {
		return apperrors.NewValidationError("Оборудование %s списано", device.InventoryNumber)
	}
	if device.Status != constants.DeviceStatusAvailable {
		return apperrors.NewValidationError("Оборудование %s недоступно: текущий статус %q", device.InventoryNumber, device.Status)
	}
	if otherPendingExists {
		return apperrors.NewValidationError("На оборудование %s уже есть ожидающая заявка", device.InventoryNumber)
	}
	return nil
}
