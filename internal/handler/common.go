package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-booking/internal/middleware"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// getUserID extracts the authenticated user's ID from the context.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errors.New("invalid user_id in context")
	}
	return id, nil
}

// bookingError converts a service error into a JSON response.  Only
// user-actionable kinds carry their message; everything else is logged
// and reported with the generic fallback.
func bookingError(c echo.Context, err error, fallback string) error {
	var unavailable *seating.SeatsUnavailableError
	var insufficient *seating.InsufficientAvailabilityError
	switch {
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":            "Some seats are not available",
			"unavailableSeats": unavailable.SeatNumbers,
		})
	case errors.As(err, &insufficient):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "Not enough seats available",
			"available": insufficient.Available,
		})
	case errors.Is(err, seating.ErrInvalidSeatIDs):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid seat IDs provided"})
	case errors.Is(err, seating.ErrInvalidSeatCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Must select between 1 and 7 seats"})
	case errors.Is(err, seating.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	case errors.Is(err, seating.ErrAlreadyCancelled):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking is already cancelled"})
	case errors.Is(err, seating.ErrStoreUnavailable):
		logrus.WithError(err).Warn(fallback)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Service temporarily unavailable, please retry"})
	default:
		logrus.WithError(err).Error(fallback)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": fallback})
	}
}

// ErrorHandler renders errors that escape handlers as {"error": ...}.
// Messages of non-HTTP errors are never sent to the client.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch {
		case status == http.StatusNotFound:
			msg = "Route not found"
		case status < http.StatusInternalServerError:
			msg = fmt.Sprint(he.Message)
		}
	}
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, echo.Map{"error": msg})
}
