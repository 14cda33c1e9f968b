// Файл: internal/dto/identity.go
package dto

import "assetflow/pkg/constants"

// Identity - аутентифицированный пользователь, доступный в контексте запроса.
// Роль и привязка к сотруднику определяются один раз при входе.
type Identity struct {
	UserID     uint64
	Role       constants.Role
	EmployeeID *uint64
}

func (i Identity) HasRole(roles ...constants.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
