package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger, now: time.Now}
}

// ListProducts returns the catalog, newest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Image:       input.Image,
		CreatedAt:   s.now().UTC(),
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if err := validateNewProduct(product, input.Price != nil); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

// validateNewProduct runs the entity rules and reports an omitted price, which
// the zero-valued Price field cannot express.
func validateNewProduct(p *domain.Product, hasPrice bool) error {
	err := domain.Validate(p)
	if hasPrice {
		return err
	}

	missing := domain.FieldError{Field: "price", Message: "price is required"}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return domain.NewValidationError(append([]domain.FieldError{missing}, ve.Fields...)...)
	case err != nil:
		return err
	}
	return domain.NewValidationError(missing)
}

// UpdateProduct applies a partial update: empty fields keep their stored value.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Image != "" {
		product.Image = input.Image
	}

	if err := domain.Validate(product); err != nil {
		return nil, err
	}

	updated, err := s.repo.Replace(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
