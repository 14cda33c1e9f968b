package dto

type CreateExtensionDTO struct {
	NewReturnDate string `json:"new_return_date" validate:"required,datetime=2006-01-02,future_date"`
	Reason        string `json:"reason" validate:"required,notblank,max=2000"`
}

type ReviewExtensionDTO struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}
