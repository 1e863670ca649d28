// Package models defines the data types exchanged with the campus backend.
package models

// Role classifies an authenticated user's access level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserProfile is the authenticated user as returned by the login endpoint.
// It is immutable once obtained: a new login replaces it wholesale.
type UserProfile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// LoginResponse is the payload of POST /api/auth/login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}
