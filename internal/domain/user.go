package domain

import (
	"time"
)

// User roles.
const (
	RoleAdmin     = "admin"
	RoleAffiliate = "affiliate"
	RoleCustomer  = "customer"
)

// User is an authenticated account. PasswordHash is a bcrypt hash and is
// never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsValidRole checks whether the given role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleAffiliate || role == RoleCustomer
}

// TokenPair is an access/refresh token pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
