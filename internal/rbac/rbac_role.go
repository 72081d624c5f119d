package rbac

import (
	"strings"

	"github.com/google/uuid"
)

// Role is resolved once when a token is issued and travels with the
// principal from then on.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ParseRole falls back to RoleEmployee for unknown or empty values.
func ParseRole(v string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(v))) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleEmployee
	}
}

// Principal is the authenticated caller.
type Principal struct {
	UserID     uuid.UUID
	EmployeeID *uuid.UUID
	Role       Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanActFor reports whether the caller may read or create records owned by
// employeeID.
func (p Principal) CanActFor(employeeID uuid.UUID) bool {
	if p.IsAdmin() {
		return true
	}
	return p.EmployeeID != nil && *p.EmployeeID == employeeID
}
