package entities

import (
	"assetflow/pkg/types"

	"github.com/aarondl/null/v8"
)

type DeviceType struct {
	ID          uint64      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description null.String `json:"description" db:"description"`

	types.BaseEntity
}
