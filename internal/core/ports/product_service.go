package ports

import (
	"context"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// CreateProductInput carries the fields of a new catalog entry. A nil Price
// means the price was omitted.
type CreateProductInput struct {
	Name        string
	Price       *float64
	Description string
	Image       string
}

// UpdateProductInput carries a partial update. Empty strings and a nil Price
// keep the stored value.
type UpdateProductInput struct {
	Name        string
	Price       *float64
	Description string
	Image       string
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
