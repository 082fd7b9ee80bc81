package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/iliyamo/seat-booking/internal/model"
)

// BookingRepo provides persistence for bookings.  The reserved seat ids
// are kept as an ordered JSON array in bookings.seat_ids.  All
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and created_at on the
// provided record.  The caller must commit or rollback the transaction.
// A reference collision yields ErrDuplicateReference; InnoDB keeps the
// transaction usable after a failed statement so the caller may retry
// with a fresh reference.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	seatJSON, err := json.Marshal(b.SeatIDs)
	if err != nil {
		return err
	}
	const q = `INSERT INTO bookings (user_id, seat_ids, reference, status, created_at, updated_at)
	           VALUES (?, ?, ?, ?, UTC_TIMESTAMP(3), UTC_TIMESTAMP(3))`
	res, err := tx.ExecContext(ctx, q, b.UserID, string(seatJSON), b.Reference, b.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateReference
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back created_at so the response carries the DB timestamp
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	var created time.Time
	if err := tx.QueryRowContext(ctx, sel, b.ID).Scan(&created); err != nil {
		return err
	}
	b.CreatedAt = created.UTC()
	return nil
}

// GetForUserTx reads a booking owned by userID without locking it.
// It returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, seat_ids, reference, status, created_at
	           FROM bookings WHERE id = ? AND user_id = ?`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, bookingID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// LockForUserTx loads a booking owned by userID with FOR UPDATE so that
// two concurrent cancellations of the same booking are serialised.
// It returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) LockForUserTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, seat_ids, reference, status, created_at
	           FROM bookings WHERE id = ? AND user_id = ? FOR UPDATE`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, bookingID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// SetStatusTx updates the status of a single booking.
func (r *BookingRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
	const q = `UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP(3) WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, bookingID)
	return err
}

// CancelAllActiveTx cancels every active booking and returns how many
// rows changed.
func (r *BookingRepo) CancelAllActiveTx(ctx context.Context, tx *sql.Tx) (int64, error) {
	const q = `UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP(3) WHERE status = ?`
	res, err := tx.ExecContext(ctx, q, model.BookingCancelled, model.BookingActive)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByUser returns all bookings for the given user ordered by
// creation time descending (newest first), cancelled ones included.
// SeatNumbers is left empty; the store resolves it against seats.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT id, user_id, seat_ids, reference, status, created_at
	           FROM bookings
	           WHERE user_id = ?
	           ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var (
		b        model.Booking
		seatJSON []byte
	)
	if err := row.Scan(&b.ID, &b.UserID, &seatJSON, &b.Reference, &b.Status, &b.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(seatJSON, &b.SeatIDs); err != nil {
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}
