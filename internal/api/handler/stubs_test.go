package handler

import (
	"context"

	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
)

type stubAccountService struct {
	registerFn func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	listFn     func(ctx context.Context) ([]*domain.User, error)
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	updateFn   func(ctx context.Context, requester domain.Identity, id string, changes ports.UserChanges) (*domain.User, error)
	deleteFn   func(ctx context.Context, requester domain.Identity, id string) error
}

func (s *stubAccountService) Register(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubAccountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) UpdateUser(ctx context.Context, requester domain.Identity, id string, changes ports.UserChanges) (*domain.User, error) {
	return s.updateFn(ctx, requester, id, changes)
}

func (s *stubAccountService) DeleteUser(ctx context.Context, requester domain.Identity, id string) error {
	return s.deleteFn(ctx, requester, id)
}

type stubProductService struct {
	listFn   func(ctx context.Context) ([]*domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	createFn func(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.listFn(ctx)
}

func (s *stubProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, input)
}

func (s *stubProductService) UpdateProduct(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
