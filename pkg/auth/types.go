package auth

// Role is an organization-wide access level
type Role string

const (
	// RoleStaff is the default role: full inventory access, no user management
	RoleStaff Role = "staff"
	// RoleAdmin additionally manages user accounts
	RoleAdmin Role = "admin"
)

// ValidRole reports whether the role belongs to the closed role set
func ValidRole(role Role) bool {
	return role == RoleStaff || role == RoleAdmin
}

// User is an identity record. The password digest is deliberately not part
// of this struct; it stays inside the credential store and the login path.
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Identity is the authenticated principal attached to a request context by
// the auth middleware. It reflects the token's claims, not the live user
// record.
type Identity struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
