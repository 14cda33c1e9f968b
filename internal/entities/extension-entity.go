package entities

import (
	"time"

	"assetflow/pkg/constants"

	"github.com/aarondl/null/v8"
)

// Extension - запрос на перенос даты возврата по заявке.
type Extension struct {
	ID            uint64                  `json:"id" db:"id"`
	RequestID     uint64                  `json:"request_id" db:"request_id"`
	NewReturnDate time.Time               `json:"new_return_date" db:"new_return_date"`
	Reason        string                  `json:"reason" db:"reason"`
	Status        constants.RequestStatus `json:"status" db:"status"`
	DecidedBy     null.Uint64             `json:"decided_by" db:"decided_by"`
	CreatedAt     time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at" db:"updated_at"`
}
