package dto

import "assetflow/internal/entities"

type ReportBreakdownDTO struct {
	Description string `json:"description" validate:"required,notblank,max=2000"`
}

type BreakdownStatisticsDTO struct {
	TotalRepairs     uint64            `json:"total_repairs"`
	CompletedRepairs uint64            `json:"completed_repairs"`
	Repairs          []entities.Repair `json:"repairs"`
}
