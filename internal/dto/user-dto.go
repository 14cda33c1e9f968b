package dto

type CreateUserDTO struct {
	Username   string  `json:"username" validate:"required,min=3,max=150"`
	Password   string  `json:"password" validate:"required,min=4"`
	Role       string  `json:"role" validate:"required,role"`
	EmployeeID *uint64 `json:"employee_id" validate:"omitempty,gt=0"`
}

type UpdateRoleDTO struct {
	Role string `json:"role" validate:"required,role"`
}

type UserDTO struct {
	ID         uint64  `json:"id"`
	Username   string  `json:"username"`
	Role       string  `json:"role"`
	EmployeeID *uint64 `json:"employee_id,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
