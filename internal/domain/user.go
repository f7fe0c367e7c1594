package domain

import "time"

// User represents a system user.
type User struct {
	ID               string
	Name             string
	Email            string
	HashedPassword   string
	Role             Role
	LoginAttempts    int
	LockedUntil      *time.Time
	ResetToken       string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Locked reports whether the account is currently locked out after too many
// failed login attempts.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin has full access, including user management.
	RoleAdmin Role = "admin"

	// RoleUser can record flows and read balances.
	RoleUser Role = "user"
)

var validRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// IsValid checks if the role is a valid role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageUsers checks if the role can manage other users.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}
