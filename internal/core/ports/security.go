package ports

import (
	"time"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// PasswordHasher produces self-contained salted digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false with a nil error on mismatch, and
	// domain.ErrCorruptCredential when digest cannot be parsed.
	Verify(plaintext, digest string) (bool, error)
}

// TokenVerifier validates a bearer token and resolves the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

// TokenIssuer mints signed, time-bounded tokens.
type TokenIssuer interface {
	TokenVerifier
	Issue(userID string, role domain.Role) (token string, expiresAt time.Time, err error)
}
