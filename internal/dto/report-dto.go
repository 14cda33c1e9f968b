package dto

// MovementReportDTO - последние записи журнала движения.
type MovementReportDTO struct {
	Limit     uint64        `json:"limit"`
	Movements []MovementDTO `json:"movements"`
}
