package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-booking/internal/seating"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestBookingErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unavailable", fmt.Errorf("book: %w", &seating.SeatsUnavailableError{SeatNumbers: []int{3}}), http.StatusBadRequest, "Some seats are not available"},
		{"insufficient", &seating.InsufficientAvailabilityError{Available: 2}, http.StatusBadRequest, "Not enough seats available"},
		{"invalid ids", seating.ErrInvalidSeatIDs, http.StatusBadRequest, "Invalid seat IDs provided"},
		{"invalid count", seating.ErrInvalidSeatCount, http.StatusBadRequest, "Must select between 1 and 7 seats"},
		{"not found", fmt.Errorf("cancel: %w", seating.ErrNotFound), http.StatusNotFound, "Booking not found"},
		{"already cancelled", seating.ErrAlreadyCancelled, http.StatusBadRequest, "Booking is already cancelled"},
		{"store", errors.Join(seating.ErrStoreUnavailable, errors.New("Error 1213: Deadlock found")), http.StatusServiceUnavailable, "Service temporarily unavailable, please retry"},
		{"other", errors.New("driver: bad connection"), http.StatusInternalServerError, "Failed to book seats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/", "")
			require.NoError(t, bookingError(c, tt.err, "Failed to book seats"))
			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.msg, body["error"])
			assert.NotContains(t, rec.Body.String(), "Deadlock")
			assert.NotContains(t, rec.Body.String(), "driver")
		})
	}
}

func TestBindAndValidateBooking(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"seatIds":[1,2]}`, true},
		{"missing", `{}`, false},
		{"empty", `{"seatIds":[]}`, false},
		{"eight", `{"seatIds":[1,2,3,4,5,6,7,8]}`, false},
		{"malformed", `{"seatIds":"x"}`, false},
		{"zero id", `{"seatIds":[0]}`, false},
		{"id above layout", `{"seatIds":[5,81]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/seats/book", tt.body)
			var req bookReq
			ok, err := bindAndValidate(c, &req)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestSeatIDElementDetails(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/seats/book", `{"seatIds":[5,81]}`)
	var req bookReq
	ok, err := bindAndValidate(c, &req)
	require.NoError(t, err)
	require.False(t, ok)

	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["error"])
	details := body["details"].([]any)
	require.Len(t, details, 1)
	d := details[0].(map[string]any)
	assert.Equal(t, "seatIds[1]", d["field"])
	assert.Equal(t, "Invalid seat IDs provided", d["message"])
}

func TestRegisterValidationDetails(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/auth/register", `{"username":"a b","email":"nope","password":"x"}`)
	var req registerReq
	ok, err := bindAndValidate(c, &req)
	require.NoError(t, err)
	require.False(t, ok)

	body := decode(t, rec)
	assert.Equal(t, "Validation failed", body["error"])
	details, _ := body["details"].([]any)
	fields := map[string]string{}
	for _, d := range details {
		m := d.(map[string]any)
		fields[m["field"].(string)] = m["message"].(string)
	}
	assert.Equal(t, "Username can only contain letters, numbers, and underscores", fields["username"])
	assert.Equal(t, "Please provide a valid email address", fields["email"])
	assert.Equal(t, "Password must be at least 6 characters long", fields["password"])
}

func TestStatus(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	require.NoError(t, Status("test")(c))
	body := decode(t, rec)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestErrorHandler(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/nope", "")
	ErrorHandler(echo.ErrNotFound, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode(t, rec)["error"])

	c, rec = newContext(http.MethodGet, "/", "")
	ErrorHandler(errors.New("sql: connection refused"), c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["error"])

	c, rec = newContext(http.MethodPost, "/", "")
	ErrorHandler(echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), c)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", decode(t, rec)["error"])
}
