package domain

import "strings"

// Role is an authority label used for route-level access control.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalizes "admin", "ROLE_ADMIN" and friends into a Role.
func ParseRole(value string) (Role, bool) {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.TrimPrefix(v, "ROLE_")
	switch Role(v) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User represents a registered account. Password holds the stored hash and is
// never serialized.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Credentials is what the authentication layer needs to verify a login.
type Credentials struct {
	UserID       int64
	Username     string
	PasswordHash string
	Roles        []Role
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   int64
	Username string
	Roles    []Role
}

// HasRole reports whether the principal was granted role.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
