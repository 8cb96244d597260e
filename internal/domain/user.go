package domain

import "time"

// UserRole enumerates staff roles in the console.
type UserRole string

const (
	RoleAdmin     UserRole = "Admin"
	RoleLeadAgent UserRole = "Lead Agent"
	RoleAgent     UserRole = "Agent"
	RoleStaff     UserRole = "Staff"
)

// DefaultRole is assigned when a user row is provisioned on first login.
const DefaultRole = RoleAgent

// ValidRole reports whether the value is one of the known roles.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleAdmin, RoleLeadAgent, RoleAgent, RoleStaff:
		return true
	}
	return false
}

// Assignable reports whether a user with this role may own complaints.
func (r UserRole) Assignable() bool {
	return r == RoleAdmin || r == RoleLeadAgent || r == RoleAgent
}

// User is a staff member acting in the console. Rows are created implicitly
// on first login via the identity provider.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	CreatedAt time.Time
}
