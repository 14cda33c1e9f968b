package events

import (
	"assetflow/pkg/constants"

	"github.com/google/uuid"
)

const (
	RequestCreated      = "request.created"
	MovementRecorded    = "movement.recorded"
	DeviceStatusChanged = "device.status_changed"
)

// RequestCreatedEvent публикуется после коммита новой заявки.
type RequestCreatedEvent struct {
	RequestID uint64
}

func (e RequestCreatedEvent) Name() string { return RequestCreated }

// MovementRecordedEvent - в журнал добавлена запись.
type MovementRecordedEvent struct {
	MovementID   uint64
	DeviceID     uint64
	MovementType constants.MovementType
	TxID         uuid.UUID
}

func (e MovementRecordedEvent) Name() string { return MovementRecorded }

type DeviceStatusChangedEvent struct {
	DeviceID uint64
	From     constants.DeviceStatus
	To       constants.DeviceStatus
}

func (e DeviceStatusChangedEvent) Name() string { return DeviceStatusChanged }
