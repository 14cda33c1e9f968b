package entities

import (
	"time"

	"assetflow/pkg/constants"

	"github.com/aarondl/null/v8"
)

type Request struct {
	ID                uint64                  `json:"id" db:"id"`
	EmployeeID        uint64                  `json:"employee_id" db:"employee_id"`
	DeviceID          uint64                  `json:"device_id" db:"device_id"`
	Status            constants.RequestStatus `json:"status" db:"status"`
	Purpose           string                  `json:"purpose" db:"purpose"`
	PlannedReturnDate null.Time               `json:"planned_return_date" db:"planned_return_date"`
	CreatedAt         time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at" db:"updated_at"`

	// Заполняется асинхронно после создания
	AIPriorityScore      null.Float64 `json:"ai_priority_score" db:"ai_priority_score"`
	AITags               []string     `json:"ai_tags" db:"ai_tags"`
	AISummary            string       `json:"ai_summary" db:"ai_summary"`
	AINeedsClarification bool         `json:"ai_needs_clarification" db:"ai_needs_clarification"`

	Employee *Employee `json:"employee,omitempty" db:"-"`
	Device   *Device   `json:"device,omitempty" db:"-"`
}

// RequestTriage - результат автоматической оценки заявки.
type RequestTriage struct {
	PriorityScore      float64
	Tags               []string
	Summary            string
	NeedsClarification bool
}
