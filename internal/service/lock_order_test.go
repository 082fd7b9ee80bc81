package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-booking/internal/model"
	"github.com/iliyamo/seat-booking/internal/repository"
	"github.com/iliyamo/seat-booking/internal/seating"
)

var bookingCols = []string{"id", "user_id", "seat_ids", "reference", "status", "created_at"}

func newMySQLService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBookingService(repository.NewMySQLStore(db), nil, nil), mock
}

func TestCancelLocksSeatsBeforeBooking(t *testing.T) {
	svc, mock := newMySQLService(t)
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(bookingCols).AddRow(9, 2, "[5,4]", "TB1", model.BookingActive, created)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? AND user_id = \?$`).
		WithArgs(uint64(9), uint64(2)).
		WillReturnRows(row())
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats WHERE id IN (?, ?) ORDER BY id FOR UPDATE")).
		WithArgs(5, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_number", "row_number", "seat_position", "is_available"}).
			AddRow(4, 4, 1, 4, false).
			AddRow(5, 5, 1, 5, false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ? AND user_id = ? FOR UPDATE")).
		WithArgs(uint64(9), uint64(2)).
		WillReturnRows(row())
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?")).
		WithArgs(model.BookingCancelled, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats SET is_available = ? WHERE id IN (?, ?)")).
		WithArgs(true, 5, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, svc.Cancel(context.Background(), 9, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOfCancelledBookingTakesNoLocks(t *testing.T) {
	svc, mock := newMySQLService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? AND user_id = \?$`).
		WithArgs(uint64(9), uint64(2)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(9, 2, "[5]", "TB1", model.BookingCancelled, time.Now().UTC()))
	mock.ExpectRollback()

	err := svc.Cancel(context.Background(), 9, 2)
	assert.ErrorIs(t, err, seating.ErrAlreadyCancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownBookingIsNotFound(t *testing.T) {
	svc, mock := newMySQLService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? AND user_id = \?$`).
		WithArgs(uint64(9), uint64(2)).
		WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectRollback()

	assert.ErrorIs(t, svc.Cancel(context.Background(), 9, 2), seating.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
