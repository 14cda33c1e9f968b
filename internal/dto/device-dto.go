package dto

import "assetflow/internal/entities"

type CreateDeviceDTO struct {
	InventoryNumber     string  `json:"inventory_number" validate:"required,max=50,inventory_number"`
	Model               string  `json:"model" validate:"required,notblank,max=100"`
	DeviceTypeID        uint64  `json:"device_type_id" validate:"required,gt=0"`
	PurchaseDate        string  `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	ResponsiblePersonID *uint64 `json:"responsible_person_id" validate:"omitempty,gt=0"`
}

// UpdateDeviceDTO не содержит статуса: статус выводится из заявок и ремонтов.
type UpdateDeviceDTO struct {
	InventoryNumber     *string `json:"inventory_number" validate:"omitempty,max=50,inventory_number"`
	Model               *string `json:"model" validate:"omitempty,max=100"`
	DeviceTypeID        *uint64 `json:"device_type_id" validate:"omitempty,gt=0"`
	PurchaseDate        *string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	ResponsiblePersonID *uint64 `json:"responsible_person_id" validate:"omitempty,gt=0"`
}

type WriteOffDeviceDTO struct {
	Reason string `json:"reason" validate:"required,notblank,max=1000"`
}

type DeviceStatsDTO struct {
	Total     uint64 `json:"total"`
	Available uint64 `json:"available"`
	InUse     uint64 `json:"in_use"`
	Broken    uint64 `json:"broken"`
}

// DeviceListDTO - инвентарь вместе со сводкой и отметкой «у меня на руках».
type DeviceListDTO struct {
	Devices       []entities.Device `json:"devices"`
	Total         uint64            `json:"total"`
	Stats         DeviceStatsDTO    `json:"stats"`
	UserHasDevice map[uint64]bool   `json:"user_has_device"`
}

type DeviceImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// DeviceImportResultDTO - итог загрузки оборудования из xlsx.
type DeviceImportResultDTO struct {
	Created uint64                 `json:"created"`
	Skipped uint64                 `json:"skipped"`
	Errors  []DeviceImportRowError `json:"errors"`
}
