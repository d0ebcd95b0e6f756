// Package access resolves the privilege level of the signed-in principal.
package access

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the privilege level granted to a principal.
type Role string

// The closed set of roles. A principal without an assignment is a customer.
const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// ErrUnknownRole is returned when a stored or submitted role is outside the closed set.
var ErrUnknownRole = errors.New("access: unknown role")

var allRoles = []Role{RoleAdmin, RoleManager, RoleStaff, RoleCustomer}

// Roles lists every role in display order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole converts raw text into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Elevated reports whether the role grants any back-office privilege.
func (r Role) Elevated() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	case RoleCustomer:
		return false
	}
	return false
}
