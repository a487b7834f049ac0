package identity

import "github.com/nuam/calificaciones/internal/domain/shared"

// Role is the access role assigned to a user. It is a required, explicit
// value: callers at the HTTP boundary must supply one of the enumerated
// roles, an absent role is rejected rather than silently defaulted.
type Role string

const (
	// RoleAdmin has full access to all rows and all actions
	RoleAdmin Role = "admin"
	// RoleSupervisor reads every row; its mutation rights are owner-wide
	RoleSupervisor Role = "supervisor"
	// RoleCorredor (broker) sees and mutates only rows it owns
	RoleCorredor Role = "corredor"
)

// ParseRole validates a raw role value from the boundary
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleSupervisor, RoleCorredor:
		return Role(raw), nil
	case "":
		return "", shared.NewValidationError("rol", "El rol es requerido")
	default:
		return "", shared.NewValidationError("rol", "Rol desconocido: "+raw)
	}
}

// IsValid reports whether the role is one of the enumerated values
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleCorredor:
		return true
	}
	return false
}

// SeesAllRatings reports whether the role can read rows owned by other users
func (r Role) SeesAllRatings() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// OverridesOwnership reports whether the role may mutate rows it does not own
func (r Role) OverridesOwnership() bool {
	return r == RoleAdmin || r == RoleSupervisor
}
