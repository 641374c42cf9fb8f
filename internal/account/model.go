// Package account manages user accounts: registration, login, and their
// persistence.
package account

import "time"

// Roles an account may hold. Anything else defaults to RoleUser at
// registration time.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User represents a registered account. PasswordHash never leaves this
// package toward a client-facing response.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// validRoles is the role whitelist applied at registration.
var validRoles = map[string]bool{
	RoleUser:      true,
	RoleAdmin:     true,
	RoleModerator: true,
}
