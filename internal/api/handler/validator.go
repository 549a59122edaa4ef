package handler

import "github.com/ecommerce-showcase/storefront/internal/core/domain"

// echoValidator lets Echo call c.Validate(req) with the domain validation rules,
// so request DTOs and entities report failures the same way.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return domain.Validate(i)
}
