// Package authn resolves the caller identity of HTTP and WebSocket requests.
package authn

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/auth"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

const identityKey = "identity"

// TokenQueryParam carries the bearer token for browser WebSocket clients,
// which cannot set an Authorization header on the upgrade request.
const TokenQueryParam = "access_token"

// Middleware rejects requests without a valid bearer token and stores the
// verified identity on the echo context.
func Middleware(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				token = c.QueryParam(TokenQueryParam)
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			id, err := v.Identity(token)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpired) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// Identity returns the identity stored by Middleware.
func Identity(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
