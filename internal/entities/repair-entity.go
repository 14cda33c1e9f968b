package entities

import (
	"time"

	"assetflow/pkg/constants"

	"github.com/aarondl/null/v8"
)

type Repair struct {
	ID             uint64                 `json:"id" db:"id"`
	DeviceID       uint64                 `json:"device_id" db:"device_id"`
	ReportedByID   uint64                 `json:"reported_by_id" db:"reported_by_id"`
	AssignedTechID null.Uint64            `json:"assigned_tech_id" db:"assigned_tech_id"`
	Description    string                 `json:"description" db:"description"`
	Status         constants.RepairStatus `json:"status" db:"status"`
	CreatedAt      time.Time              `json:"created_at" db:"created_at"`
	CompletedAt    null.Time              `json:"completed_at" db:"completed_at"`

	Device     *Device   `json:"device,omitempty" db:"-"`
	ReportedBy *Employee `json:"reported_by,omitempty" db:"-"`
}
