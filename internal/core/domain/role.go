package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRole = errors.New("invalid account role")

// Role is the permission level of an account. The set is closed; the zero
// value is not a valid role.
type Role uint8

const (
	RoleClient Role = iota + 1
	RoleEmployee
	RoleAdmin
	RoleOwner
)

// Roles lists every valid role in ascending privilege order.
var Roles = []Role{RoleClient, RoleEmployee, RoleAdmin, RoleOwner}

// ParseRole converts the stored/submitted account_type string into a Role.
// Matching is case-insensitive; anything outside the closed set fails.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "employee":
		return RoleEmployee, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// String returns the account_type spelling used in storage and forms.
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleEmployee:
		return "Employee"
	case RoleAdmin:
		return "Admin"
	case RoleOwner:
		return "Owner"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin, RoleOwner:
		return true
	default:
		return false
	}
}

// In reports whether r is a member of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if a == r {
			return true
		}
	}
	return false
}

// MarshalText lets the role travel as its string form in JWT claims and JSON.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, ErrInvalidRole
	}
	return []byte(r.String()), nil
}

// UnmarshalText rejects any value outside the closed set.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
