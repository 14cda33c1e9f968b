package constants

// DeviceStatus - статус единицы оборудования.
type DeviceStatus string

const (
	DeviceStatusAvailable DeviceStatus = "available"
	DeviceStatusInUse     DeviceStatus = "in_use"
	DeviceStatusBroken    DeviceStatus = "broken"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusAvailable, DeviceStatusInUse, DeviceStatusBroken:
		return true
	}
	return false
}

// RequestStatus используется и заявками, и продлениями.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCompleted RequestStatus = "completed"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusCompleted:
		return true
	}
	return false
}

type RepairStatus string

const (
	RepairStatusRepairing RepairStatus = "repairing"
	RepairStatusCompleted RepairStatus = "completed"
)

type MovementType string

const (
	MovementIssue    MovementType = "issue"
	MovementReturn   MovementType = "return"
	MovementRepair   MovementType = "repair"
	MovementWriteOff MovementType = "write_off"
)

// MovementTypeLabels - подписи для отчётов.
var MovementTypeLabels = map[MovementType]string{
	MovementIssue:    "Выдача",
	MovementReturn:   "Возврат",
	MovementRepair:   "Передача в ремонт",
	MovementWriteOff: "Списание",
}

const (
	DefaultMovementReportLimit = 10
	MaxMovementReportLimit     = 1000
)
