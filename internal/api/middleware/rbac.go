package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecommerce-showcase/storefront/internal/api/metrics"
	"github.com/ecommerce-showcase/storefront/internal/core/domain"
)

// RequireRole admits only identities whose role equals role exactly. Roles are
// not hierarchical. Must be mounted after Auth.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error()).
					SetInternal(domain.ErrUnauthenticated)
			}
			if identity.Role != role {
				metrics.GuardRejectionsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error()).
					SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
