package ports

import (
	"context"
	"time"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// AuthResult is returned by successful registrations and logins.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// UserChanges carries the mutable fields of an admin update. Nil means unchanged.
type UserChanges struct {
	Role *domain.Role
}

type AccountService interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, requester domain.Identity, id string, changes UserChanges) (*domain.User, error)
	DeleteUser(ctx context.Context, requester domain.Identity, id string) error
}
