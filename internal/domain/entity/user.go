package entity

// Roles reconocidos en el token de identidad.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleApprover   = "approver"
	RoleHR         = "hr"
	RoleUser       = "user"
)

// Actor identidad del llamador, provista por la capa de autenticación.
type Actor struct {
	UserID     string
	Department string
	Role       string
}

// IsStaff indica si el rol puede ver y decidir solicitudes de otros usuarios.
func IsStaff(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleApprover, RoleHR:
		return true
	}
	return false
}
