package middleware

import (
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// UserID returns the authenticated user id stored by JWTAuth.  ok is
// false for anonymous requests.
func UserID(c echo.Context) (id uint64, ok bool) {
	id, ok = c.Get(ContextUserID).(uint64)
	return id, ok && id != 0
}
