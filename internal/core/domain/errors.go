package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrCorruptCredential  = errors.New("stored credential is corrupt")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")

	ErrNotFound        = errors.New("not found")
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

	// ErrInvalidToken is returned for every token that must be rejected.
	// ErrTokenExpired and ErrTokenMalformed wrap it so callers that only care
	// about rejection can match on ErrInvalidToken.
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
)
