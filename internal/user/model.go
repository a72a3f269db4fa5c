// Package user provides accounts, credentials and bearer-token sessions for
// the two marketplace roles.
package user

import "time"

const (
	RoleRestaurant = "restaurant"
	RoleProvider   = "provider"
)

func ValidRole(role string) bool {
	return role == RoleRestaurant || role == RoleProvider
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	BusinessName string    `json:"businessName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is an issued token pair. Tokens are opaque; validity lives in the
// sessions table, not in the token itself.
type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	UserID       string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
}
