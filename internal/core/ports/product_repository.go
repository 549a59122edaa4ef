package ports

import (
	"context"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// ProductRepository defines persistence operations for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns all products, newest first.
	List(ctx context.Context) ([]*domain.Product, error)
	Replace(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
