package domain

import (
	"errors"
	"strings"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// ErrInvalidRole is returned by ParseRole for an unknown role name.
var ErrInvalidRole = errors.New("invalid role")

// ValidRoles returns every known role.
func ValidRoles() []Role {
	return []Role{RoleAdmin, RoleSeller, RoleBuyer}
}

// ParseRole accepts a role name in any casing.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidRoles() {
		if r == valid {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}
