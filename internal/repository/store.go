package repository

import (
	"context"

	"github.com/iliyamo/seat-booking/internal/model"
)

// Store is the persistence boundary of the booking service.  Every
// mutation runs inside WithTx; the availability re-check and the
// availability flip must happen on the same Tx so that concurrent
// bookings of one seat are serialised by the store.
type Store interface {
	// WithTx runs fn in a single transaction.  The transaction commits
	// when fn returns nil and rolls back otherwise; no partial writes
	// survive a failed fn.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// ListSeats returns every seat ordered by row and position.
	ListSeats(ctx context.Context) ([]model.Seat, error)
	// ListBookingsByUser returns the user's bookings newest first with
	// SeatNumbers populated.
	ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// Tx is the set of operations available inside a store transaction.
// Callers lock seat rows before booking rows.
type Tx interface {
	// LockSeats locks the rows of the given seats until the transaction
	// ends and returns their current state ordered by id.
	LockSeats(ctx context.Context, ids []int) ([]model.Seat, error)
	// LockAllSeats locks every seat row and returns how many were locked.
	LockAllSeats(ctx context.Context) (int, error)
	SetSeatsAvailable(ctx context.Context, ids []int, available bool) error
	SetAllSeatsAvailable(ctx context.Context) error
	// CreateBooking inserts b and fills in ID and CreatedAt.  It returns
	// ErrDuplicateReference when b.Reference is already used.
	CreateBooking(ctx context.Context, b *model.Booking) error
	// GetBookingForUser returns the booking with the given id owned by
	// userID without locking it, or ErrBookingNotFound.
	GetBookingForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error)
	// LockBookingForUser locks and returns the booking with the given id
	// owned by userID, or ErrBookingNotFound.
	LockBookingForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error)
	SetBookingStatus(ctx context.Context, bookingID uint64, status string) error
	// CancelActiveBookings marks every active booking cancelled and
	// returns the number of bookings changed.
	CancelActiveBookings(ctx context.Context) (int64, error)
}

// UserStore persists application users.
type UserStore interface {
	// CreateUser hashes password with the given bcrypt cost and stores
	// the user.  It returns ErrEmailExists for a taken email.
	CreateUser(ctx context.Context, username, email, password string, cost int) (uint64, error)
	// GetUserByEmail returns ErrUserNotFound when no user matches.
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}
