package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/handler"
	"github.com/iliyamo/seat-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, env string) {
	e.GET("/healthz", handler.Health)
	e.GET("/health", handler.Status(env))
}

// RegisterAuth registers registration, login and the protected /auth/me
// endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterSeats registers the seat map and booking endpoints.  The seat
// map is served through cache; booking routes require a valid access
// token and reset is gated by resetKey when it is non-empty.
func RegisterSeats(e *echo.Echo, s *handler.SeatHandler, cache *middleware.ResponseCache, jwtSecret, resetKey string) {
	g := e.Group("/seats")
	g.GET("", s.GetSeats, cache.Middleware())
	g.GET("/suggest", s.Suggest)
	g.POST("/reset", s.Reset, middleware.RequireResetKey(resetKey))

	jwt := middleware.JWTAuth(jwtSecret)
	g.POST("/book", s.Book, jwt)
	g.GET("/my-bookings", s.MyBookings, jwt)
	g.DELETE("/cancel/:bookingId", s.Cancel, jwt)
}
