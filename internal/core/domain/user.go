package domain

import (
	"fmt"
	"time"
)

// Role is the authorization level carried by a user and its tokens.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User models an account in the credential store. PasswordHash never leaves
// the server: it is excluded from JSON so every serialized User is the public view.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username" validate:"required,max=64"`
	PasswordHash string     `json:"-" validate:"required"`
	Role         Role       `json:"role" validate:"required,oneof=admin user"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// Identity is what the access guard resolves from a verified token.
// Role is the snapshot taken when the token was issued.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// CheckPassword rejects passwords that cannot be stored.
func CheckPassword(password string) error {
	switch {
	case password == "":
		return NewValidationError(FieldError{Field: "password", Message: "password is required"})
	case len(password) > MaxPasswordBytes:
		return NewValidationError(FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes),
		})
	}
	return nil
}
