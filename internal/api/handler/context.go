package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecommerce-showcase/storefront/internal/api/middleware"
	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. A missing
// identity means the route was mounted without the guard; reject with 401
// rather than act on behalf of nobody.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims").
			SetInternal(domain.ErrUnauthenticated)
	}
	return id, nil
}
