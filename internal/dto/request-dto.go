package dto

import "assetflow/internal/entities"

type CreateRequestDTO struct {
	DeviceID          uint64 `json:"device_id" validate:"required,gt=0"`
	Purpose           string `json:"purpose" validate:"required,notblank,max=2000"`
	PlannedReturnDate string `json:"planned_return_date" validate:"omitempty,datetime=2006-01-02,future_date"`
}

type DecideRequestDTO struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// ActiveRequestDTO - выданная заявка и открытый ремонт по её оборудованию, если есть.
type ActiveRequestDTO struct {
	entities.Request
	OpenRepair *entities.Repair `json:"open_repair,omitempty"`
}

type ManageRequestsDTO struct {
	Pending []entities.Request `json:"pending"`
	Active  []ActiveRequestDTO `json:"active"`
}
