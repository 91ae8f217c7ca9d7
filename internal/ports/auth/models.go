package auth

import "strings"

// Role define el tipo de principal.
type Role string

const (
	RoleCompany  Role = "company"
	RolePetOwner Role = "pet_owner"
	RoleAdmin    Role = "admin"
)

// ParseRole normaliza un rol. Devuelve false si no es uno conocido.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCompany, RolePetOwner, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// Claims representa la información extraída del token.
// Para una empresa, UserID es también el companyId del tenant.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

func (c Claims) Is(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
