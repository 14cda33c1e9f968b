package constants

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTech     Role = "tech"
	RoleEmployee Role = "employee"
	RoleAnalyst  Role = "analyst"
)

// DefaultRole назначается логину, у которого ещё нет профиля.
// Применяется один раз при входе, а не при каждой проверке прав.
const DefaultRole = RoleEmployee

var AllRoles = []Role{RoleAdmin, RoleTech, RoleEmployee, RoleAnalyst}

func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// LandingPage - куда отправлять пользователя после входа.
func (r Role) LandingPage() string {
	switch r {
	case RoleAdmin:
		return "manage_requests"
	case RoleTech:
		return "repair_list"
	case RoleAnalyst:
		return "equipment_report"
	default:
		return "device_list"
	}
}
