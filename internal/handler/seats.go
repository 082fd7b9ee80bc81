package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-booking/internal/model"
	"github.com/iliyamo/seat-booking/internal/service"
)

// SeatHandler serves the seat map and the booking endpoints.
type SeatHandler struct {
	Bookings *service.BookingService
}

func NewSeatHandler(s *service.BookingService) *SeatHandler {
	if s == nil {
		panic("nil booking service passed to NewSeatHandler")
	}
	return &SeatHandler{Bookings: s}
}

// ----- DTOs -----

type seatDTO struct {
	ID           int  `json:"id"`
	SeatNumber   int  `json:"seatNumber"`
	RowNumber    int  `json:"rowNumber"`
	SeatPosition int  `json:"seatPosition"`
	IsAvailable  bool `json:"isAvailable"`
}

type bookReq struct {
	SeatIDs []int `json:"seatIds" validate:"required,min=1,max=7,dive,min=1,max=80"`
}

type bookedPart struct {
	ID          uint64    `json:"id"`
	Reference   string    `json:"reference"`
	SeatIDs     []int     `json:"seatIds"`
	BookingDate time.Time `json:"bookingDate"`
}

type bookingDTO struct {
	ID          uint64    `json:"id"`
	Reference   string    `json:"reference"`
	BookingDate time.Time `json:"bookingDate"`
	Status      string    `json:"status"`
	SeatNumbers []int     `json:"seatNumbers"`
}

// GetSeats handles GET /seats.  Seats are grouped by row number; JSON
// object keys are the decimal row numbers.
func (h *SeatHandler) GetSeats(c echo.Context) error {
	seats, err := h.Bookings.Seats(c.Request().Context())
	if err != nil {
		return bookingError(c, err, "Failed to fetch seats")
	}
	rows := make(map[string][]seatDTO)
	for _, s := range seats {
		key := strconv.Itoa(s.RowNumber)
		rows[key] = append(rows[key], seatDTO{
			ID:           s.ID,
			SeatNumber:   s.SeatNumber,
			RowNumber:    s.RowNumber,
			SeatPosition: s.SeatPosition,
			IsAvailable:  s.IsAvailable,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": rows})
}

// Suggest handles GET /seats/suggest?count=N and returns the seats the
// allocator would pick right now.  Nothing is reserved.
func (h *SeatHandler) Suggest(c echo.Context) error {
	count, err := strconv.Atoi(c.QueryParam("count"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Must select between 1 and 7 seats"})
	}
	ids, err := h.Bookings.Suggest(c.Request().Context(), count)
	if err != nil {
		return bookingError(c, err, "Failed to suggest seats")
	}
	return c.JSON(http.StatusOK, echo.Map{"seatIds": ids})
}

// Book handles POST /seats/book.
func (h *SeatHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	b, err := h.Bookings.Book(c.Request().Context(), req.SeatIDs, userID)
	if err != nil {
		return bookingError(c, err, "Failed to book seats")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Seats booked successfully",
		"booking": bookedPart{
			ID:          b.ID,
			Reference:   b.Reference,
			SeatIDs:     b.SeatIDs,
			BookingDate: b.CreatedAt,
		},
	})
}

// MyBookings handles GET /seats/my-bookings.
func (h *SeatHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListBookings(c.Request().Context(), userID)
	if err != nil {
		return bookingError(c, err, "Failed to fetch bookings")
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingDTOs(bookings)})
}

func toBookingDTOs(bookings []model.Booking) []bookingDTO {
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingDTO{
			ID:          b.ID,
			Reference:   b.Reference,
			BookingDate: b.CreatedAt,
			Status:      b.Status,
			SeatNumbers: b.SeatNumbers,
		})
	}
	return out
}

// Cancel handles DELETE /seats/cancel/:bookingId.
func (h *SeatHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Bookings.Cancel(c.Request().Context(), bookingID, userID); err != nil {
		return bookingError(c, err, "Failed to cancel booking")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully"})
}

// Reset handles POST /seats/reset.  Access control, if any, is applied
// by the router.
func (h *SeatHandler) Reset(c echo.Context) error {
	if err := h.Bookings.Reset(c.Request().Context()); err != nil {
		return bookingError(c, err, "Failed to reset seats")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All seats have been reset"})
}
