package ports

import (
	"context"
	"time"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// UserRepository is the credential store. Every method touches a single
// document; uniqueness of Username is enforced by the store itself.
type UserRepository interface {
	// Create inserts user and returns it with its assigned ID.
	// Returns domain.ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
