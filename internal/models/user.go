package models

// Role is resolved once per request from the caller's group memberships.
type Role string

const (
	RoleManager  Role = "manager"
	RoleDelivery Role = "delivery"
)

// User represents an authenticated caller.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email,omitempty" db:"email"`
	IsStaff  bool   `json:"-" db:"is_staff"`
	Roles    []Role `json:"-"`
}

// HasRole reports whether the user belongs to the given group.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsManager reports manager group membership.
func (u *User) IsManager() bool { return u.HasRole(RoleManager) }

// IsDelivery reports delivery group membership.
func (u *User) IsDelivery() bool { return u.HasRole(RoleDelivery) }
