package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID         uint64      `json:"id" db:"id"`
	FullName   string      `json:"full_name" db:"full_name"`
	Position   string      `json:"position" db:"position"`
	Department null.String `json:"department" db:"department"`
	Email      string      `json:"email" db:"email"`

	// Логин, привязанный к сотруднику (не более одного)
	UserID null.Uint64 `json:"user_id" db:"user_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
