package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/seat-booking/internal/model"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// MySQLStore implements Store on top of the seats and bookings tables.
// Transactions run at READ COMMITTED; isolation between bookings comes
// from the FOR UPDATE row locks taken by the Tx methods.
type MySQLStore struct {
	db       *sql.DB
	Seats    *SeatRepo
	Bookings *BookingRepo
}

// NewMySQLStore builds a store around an open connection pool.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, Seats: NewSeatRepo(db), Bookings: NewBookingRepo(db)}
}

// DB exposes the underlying pool for health checks.
func (s *MySQLStore) DB() *sql.DB { return s.db }

// WithTx begins a transaction, runs fn and commits or rolls back.
func (s *MySQLStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return storeErr("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(ctx, &mysqlTx{tx: tx, seats: s.Seats, bookings: s.Bookings}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	committed = true
	return nil
}

// ListSeats returns every seat ordered by row and position.
func (s *MySQLStore) ListSeats(ctx context.Context) ([]model.Seat, error) {
	seats, err := s.Seats.List(ctx)
	if err != nil {
		return nil, storeErr("list seats", err)
	}
	return seats, nil
}

// ListBookingsByUser loads the user's bookings and resolves each seat id
// to its seat number.
func (s *MySQLStore) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	if len(bookings) == 0 {
		return bookings, nil
	}
	numbers, err := s.Seats.SeatNumbers(ctx)
	if err != nil {
		return nil, storeErr("load seat numbers", err)
	}
	for i := range bookings {
		bookings[i].SeatNumbers = resolveSeatNumbers(bookings[i].SeatIDs, numbers)
	}
	return bookings, nil
}

// Seed makes sure the fixed seat layout exists.
func (s *MySQLStore) Seed(ctx context.Context) error {
	return s.Seats.Seed(ctx, seating.Layout())
}

func resolveSeatNumbers(ids []int, numbers map[int]int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if n, ok := numbers[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// mysqlTx adapts the repositories' *sql.Tx methods to the Tx interface
// and tags driver failures as store errors.
type mysqlTx struct {
	tx       *sql.Tx
	seats    *SeatRepo
	bookings *BookingRepo
}

func (t *mysqlTx) LockSeats(ctx context.Context, ids []int) ([]model.Seat, error) {
	seats, err := t.seats.LockByIDsTx(ctx, t.tx, ids)
	if err != nil {
		return nil, lockErr("lock seats", err)
	}
	return seats, nil
}

func (t *mysqlTx) LockAllSeats(ctx context.Context) (int, error) {
	n, err := t.seats.LockAllTx(ctx, t.tx)
	if err != nil {
		return 0, lockErr("lock all seats", err)
	}
	return n, nil
}

func (t *mysqlTx) SetSeatsAvailable(ctx context.Context, ids []int, available bool) error {
	return storeErr("update seats", t.seats.SetAvailabilityTx(ctx, t.tx, ids, available))
}

func (t *mysqlTx) SetAllSeatsAvailable(ctx context.Context) error {
	return storeErr("reset seats", t.seats.SetAllAvailableTx(ctx, t.tx))
}

func (t *mysqlTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	err := t.bookings.CreateTx(ctx, t.tx, b)
	if err == nil || errors.Is(err, ErrDuplicateReference) {
		return err
	}
	return storeErr("insert booking", err)
}

func (t *mysqlTx) GetBookingForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	b, err := t.bookings.GetForUserTx(ctx, t.tx, bookingID, userID)
	if err == nil || errors.Is(err, ErrBookingNotFound) {
		return b, err
	}
	return nil, storeErr("load booking", err)
}

func (t *mysqlTx) LockBookingForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	b, err := t.bookings.LockForUserTx(ctx, t.tx, bookingID, userID)
	if err == nil || errors.Is(err, ErrBookingNotFound) {
		return b, err
	}
	return nil, lockErr("lock booking", err)
}

func (t *mysqlTx) SetBookingStatus(ctx context.Context, bookingID uint64, status string) error {
	return storeErr("update booking", t.bookings.SetStatusTx(ctx, t.tx, bookingID, status))
}

func (t *mysqlTx) CancelActiveBookings(ctx context.Context) (int64, error) {
	n, err := t.bookings.CancelAllActiveTx(ctx, t.tx)
	if err != nil {
		return 0, storeErr("cancel bookings", err)
	}
	return n, nil
}

// lockErr is storeErr with a clearer operation name for lock conflicts.
func lockErr(op string, err error) error {
	if isLockConflict(err) {
		op += " (lock conflict)"
	}
	return storeErr(op, err)
}
