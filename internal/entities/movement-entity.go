package entities

import (
	"time"

	"assetflow/pkg/constants"

	"github.com/google/uuid"
)

// EquipmentMovement - запись журнала движения оборудования. Только вставка.
type EquipmentMovement struct {
	ID           uint64                 `db:"id"`
	DeviceID     uint64                 `db:"device_id"`
	EmployeeID   uint64                 `db:"employee_id"`
	MovementType constants.MovementType `db:"movement_type"`
	Notes        string                 `db:"notes"`
	// Записи одной бизнес-операции имеют общий TxID
	TxID      uuid.UUID `db:"tx_id"`
	Timestamp time.Time `db:"timestamp"`
}
