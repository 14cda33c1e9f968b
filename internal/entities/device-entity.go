package entities

import (
	"assetflow/pkg/constants"
	"assetflow/pkg/types"

	"github.com/aarondl/null/v8"
)

type Device struct {
	ID              uint64                 `json:"id" db:"id"`
	InventoryNumber string                 `json:"inventory_number" db:"inventory_number"`
	Model           string                 `json:"model" db:"model"`
	DeviceTypeID    uint64                 `json:"device_type_id" db:"device_type_id"`
	Status          constants.DeviceStatus `json:"status" db:"status"`
	PurchaseDate    null.Time              `json:"purchase_date" db:"purchase_date"`

	// МОЛ - материально ответственное лицо
	ResponsiblePersonID null.Uint64 `json:"responsible_person_id" db:"responsible_person_id"`

	IsWrittenOff   bool        `json:"is_written_off" db:"is_written_off"`
	WriteOffReason null.String `json:"write_off_reason" db:"write_off_reason"`
	WriteOffDate   null.Time   `json:"write_off_date" db:"write_off_date"`

	types.BaseEntity

	DeviceType *DeviceType `json:"device_type,omitempty" db:"-"`
}
