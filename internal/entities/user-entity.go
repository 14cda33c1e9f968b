package entities

import (
	"time"

	"assetflow/pkg/constants"
)

// User - учётная запись для входа.
type User struct {
	ID           uint64    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type UserProfile struct {
	UserID uint64         `json:"user_id" db:"user_id"`
	Role   constants.Role `json:"role" db:"role"`
}
