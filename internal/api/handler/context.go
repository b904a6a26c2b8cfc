package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/verikey/otp-service/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails before any service call: a non-empty principal proves the
// middleware ran and the token carried a subject.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	sub, _ := c.Get("principal").(string)
	if sub == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Principal(sub), nil
}
