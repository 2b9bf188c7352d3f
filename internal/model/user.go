package model

import "time"

// Role is an ordered permission tier. Roles form a total order by
// integer level; every privileged operation is gated by comparing the
// caller's level against a required minimum.
type Role string

const (
	RoleView    Role = "VIEW"    // read-only browsing
	RoleMonitor Role = "MONITOR" // may read the activity log
	RoleStaff   Role = "STAFF"   // may add/edit animals and make reservations
	RoleAdmin   Role = "ADMIN"   // full access including user management
)

// Level returns the numeric rank of the role. Unknown roles rank below
// VIEW so a corrupted record never grants access.
func (r Role) Level() int {
	switch r {
	case RoleView:
		return 0
	case RoleMonitor:
		return 1
	case RoleStaff:
		return 2
	case RoleAdmin:
		return 3
	}
	return -1
}

// DisplayName returns the label used in 403 responses, e.g. "Admin" in
// "Admin access required".
func (r Role) DisplayName() string {
	switch r {
	case RoleView:
		return "View"
	case RoleMonitor:
		return "Monitor"
	case RoleStaff:
		return "Staff"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// ParseRole maps a case-insensitive role name to a Role. The second
// return value reports whether the input named a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(normalizeUpper(s)) {
	case RoleView:
		return RoleView, true
	case RoleMonitor:
		return RoleMonitor, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User mirrors the `users` table. The username is the primary key; the
// password is stored only as a bcrypt hash.
type User struct {
	Username     string     // users.username
	PasswordHash string     // users.password_hash
	FullName     string     // users.full_name
	Role         Role       // users.role
	Active       bool       // users.active
	CreatedAt    time.Time  // users.created_at
	LastLoginAt  *time.Time // users.last_login_at (nil until first login)
}

// HasPermission reports whether the user's role meets the required
// minimum. It is monotonic in the role level.
func (u *User) HasPermission(required Role) bool {
	if u == nil {
		return false
	}
	return u.Role.Level() >= required.Level()
}

// DefaultAdminUsername is the distinguished account that can never be
// deleted, deactivated, or demoted.
const DefaultAdminUsername = "admin"
