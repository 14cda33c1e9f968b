package dto

type LoginDTO struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	UserID       uint64  `json:"user_id"`
	Role         string  `json:"role"`
	EmployeeID   *uint64 `json:"employee_id,omitempty"`
	LandingPage  string  `json:"landing_page"`
}
