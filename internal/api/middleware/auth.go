package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/identity-service/internal/core/ports"
)

// AccountContextKey is the echo.Context key under which Auth stores the
// resolved account.
const AccountContextKey = "account"

// Auth extracts the bearer token, resolves it to an account and injects the
// account into the request context. Resolution failures short-circuit to the
// central error handler before any route logic runs.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			account, err := auth.CurrentUser(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(AccountContextKey, account)
			return next(c)
		}
	}
}
