package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/identity-service/internal/api/middleware"
	"github.com/staffdesk/identity-service/internal/core/domain"
)

// ctxAccount extracts the account injected by the Auth middleware. Its
// presence proves the middleware ran; a protected route reached without it
// is a wiring bug and is rejected rather than served anonymously.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(middleware.AccountContextKey).(*domain.Account)
	if account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	return account, nil
}
