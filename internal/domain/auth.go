package domain

import "time"

// Identity is the verified caller asserted by a session token.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Session is an issued token together with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
