package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HeaderResetKey carries the operator key for destructive endpoints.
const HeaderResetKey = "X-Reset-Key"

// RequireResetKey rejects requests whose X-Reset-Key header does not
// match key with 403 Forbidden.  An empty key disables the check.
func RequireResetKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if key == "" {
			return next
		}
		return func(c echo.Context) error {
			got := c.Request().Header.Get(HeaderResetKey)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
