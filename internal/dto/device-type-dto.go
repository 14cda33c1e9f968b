package dto

import "github.com/aarondl/null/v8"

type CreateDeviceTypeDTO struct {
	Name        string      `json:"name" validate:"required,notblank,max=100"`
	Description null.String `json:"description" validate:"omitempty,max=1000"`
}

type UpdateDeviceTypeDTO struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty"`
}

type ShortDeviceTypeDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
