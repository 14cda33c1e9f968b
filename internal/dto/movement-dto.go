package dto

type MovementDTO struct {
	ID              uint64 `json:"id"`
	DeviceID        uint64 `json:"device_id"`
	InventoryNumber string `json:"inventory_number"`
	DeviceModel     string `json:"device_model"`
	EmployeeID      uint64 `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	MovementType    string `json:"movement_type"`
	MovementLabel   string `json:"movement_label"`
	Notes           string `json:"notes"`
	TxID            string `json:"tx_id"`
	Timestamp       string `json:"timestamp"`
}
