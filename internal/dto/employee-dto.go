package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	FullName   string      `json:"full_name" validate:"required,notblank,max=100"`
	Position   string      `json:"position" validate:"required,notblank,max=100"`
	Department null.String `json:"department" validate:"omitempty,max=100"`
	Email      string      `json:"email" validate:"required,email"`
	UserID     *uint64     `json:"user_id" validate:"omitempty,gt=0"`
}

type UpdateEmployeeDTO struct {
	FullName   *string `json:"full_name" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	UserID     *uint64 `json:"user_id" validate:"omitempty,gt=0"`
}

type ShortEmployeeDTO struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
}
