package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-booking/internal/config"
	"github.com/iliyamo/seat-booking/internal/handler"
	"github.com/iliyamo/seat-booking/internal/middleware"
	"github.com/iliyamo/seat-booking/internal/repository"
	"github.com/iliyamo/seat-booking/internal/service"
)

const secret = "router-secret"

func newServer(t *testing.T, resetKey string) *echo.Echo {
	t.Helper()
	store := repository.NewMemoryStore()
	cfg := config.Config{Env: "test", JWTSecret: secret, AccessTTLMin: 5, BcryptCost: 4}
	cache := middleware.NewResponseCache(config.CacheConfig{}, nil)
	svc := service.NewBookingService(store, nil, cache)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	RegisterRoutes(e, cfg.Env)
	RegisterAuth(e, handler.NewAuthHandler(cfg, store), cfg.JWTSecret)
	RegisterSeats(e, handler.NewSeatHandler(svc), cache, cfg.JWTSecret, resetKey)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	out := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func register(t *testing.T, e *echo.Echo, name string) string {
	t.Helper()
	rec, body := do(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"username": name, "email": name + "@Example.com", "password": "Secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	e := newServer(t, "")
	rec, _ := do(t, e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	e := newServer(t, "")
	token := register(t, e, "ana")

	rec, _ := do(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ana2", "email": "ANA@example.com", "password": "Secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body := do(t, e, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "Secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])

	rec, _ = do(t, e, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = do(t, e, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana", body["username"])

	rec, body = do(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "weak", "email": "weak@example.com", "password": "alllower1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body["error"])
}

func TestSeatMapGroupedByRow(t *testing.T) {
	e := newServer(t, "")
	rec, body := do(t, e, http.MethodGet, "/seats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rows := body["seats"].(map[string]any)
	assert.Len(t, rows, 12)
	assert.Len(t, rows["1"], 7)
	last := rows["12"].([]any)
	require.Len(t, last, 3)
	seat := last[2].(map[string]any)
	assert.EqualValues(t, 80, seat["id"])
	assert.EqualValues(t, 80, seat["seatNumber"])
	assert.EqualValues(t, 12, seat["rowNumber"])
	assert.EqualValues(t, 3, seat["seatPosition"])
	assert.Equal(t, true, seat["isAvailable"])
}

func TestBookingLifecycle(t *testing.T) {
	e := newServer(t, "")
	ana := register(t, e, "ana")
	bob := register(t, e, "bob")

	rec, _ := do(t, e, http.MethodPost, "/seats/book", "", map[string]any{"seatIds": []int{1}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := do(t, e, http.MethodPost, "/seats/book", ana, map[string]any{"seatIds": []int{1, 8}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := body["booking"].(map[string]any)
	assert.Equal(t, "Seats booked successfully", body["message"])
	assert.Equal(t, []any{1.0, 8.0}, booking["seatIds"])
	assert.Regexp(t, `^TB\d+[0-9A-Z]{4}$`, booking["reference"])
	id := uint64(booking["id"].(float64))

	rec, body = do(t, e, http.MethodGet, "/seats/suggest?count=4", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{15.0, 16.0, 17.0, 18.0}, body["seatIds"])

	rec, body = do(t, e, http.MethodPost, "/seats/book", bob, map[string]any{"seatIds": []int{2, 8}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Some seats are not available", body["error"])
	assert.Equal(t, []any{8.0}, body["unavailableSeats"])

	rec, body = do(t, e, http.MethodPost, "/seats/book", bob, map[string]any{"seatIds": []int{81}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body["error"])

	rec, body = do(t, e, http.MethodPost, "/seats/book", bob, map[string]any{"seatIds": []int{3, 3}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid seat IDs provided", body["error"])

	rec, _ = do(t, e, http.MethodDelete, fmt.Sprintf("/seats/cancel/%d", id), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = do(t, e, http.MethodDelete, fmt.Sprintf("/seats/cancel/%d", id), ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking cancelled successfully", body["message"])

	rec, body = do(t, e, http.MethodDelete, fmt.Sprintf("/seats/cancel/%d", id), ana, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Booking is already cancelled", body["error"])

	rec, body = do(t, e, http.MethodGet, "/seats/my-bookings", ana, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bookings := body["bookings"].([]any)
	require.Len(t, bookings, 1)
	first := bookings[0].(map[string]any)
	assert.Equal(t, "cancelled", first["status"])
	assert.Equal(t, []any{1.0, 8.0}, first["seatNumbers"])
}

func TestResetKey(t *testing.T) {
	e := newServer(t, "letmein")
	ana := register(t, e, "ana")
	rec, _ := do(t, e, http.MethodPost, "/seats/book", ana, map[string]any{"seatIds": []int{5}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/seats/reset", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/seats/reset", nil)
	req.Header.Set(middleware.HeaderResetKey, "letmein")
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	_, body := do(t, e, http.MethodGet, "/seats", "", nil)
	row := body["seats"].(map[string]any)["1"].([]any)
	assert.Equal(t, true, row[4].(map[string]any)["isAvailable"])
}
