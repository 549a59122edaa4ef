package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ecommerce-showcase/storefront/internal/api/metrics"
	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
)

const identityKey = "identity"

// Auth verifies the bearer token and injects the resolved identity into the
// context. Every failure is reported to the client as the same 401; the
// specific reason is only logged and counted.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, reason := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if reason != "" {
				return unauthenticated(c, log, reason, nil)
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				reason = "malformed"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				return unauthenticated(c, log, reason, err)
			}

			c.Set(identityKey, *identity)
			return next(c)
		}
	}
}

func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", "missing_token"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "invalid_header"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "missing_token"
	}
	return token, ""
}

func unauthenticated(c echo.Context, log zerolog.Logger, reason string, cause error) error {
	metrics.GuardRejectionsTotal.WithLabelValues(reason).Inc()
	log.Debug().
		Err(cause).
		Str("reason", reason).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request rejected by auth guard")

	return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error()).
		SetInternal(domain.ErrUnauthenticated)
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
