// Package service implements the booking transactor: validated,
// all-or-nothing seat reservations on top of a repository.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-booking/internal/model"
	"github.com/iliyamo/seat-booking/internal/queue"
	"github.com/iliyamo/seat-booking/internal/repository"
	"github.com/iliyamo/seat-booking/internal/seating"
)

// maxReferenceAttempts bounds reference regeneration on collisions.
const maxReferenceAttempts = 3

// Invalidator drops cached seat maps after availability changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// BookingService books, cancels and resets seats.  Publisher and Cache
// are optional; failures in either are logged and never fail a
// committed operation.
type BookingService struct {
	Store     repository.Store
	Publisher queue.Publisher
	Cache     Invalidator

	now          func() time.Time
	newReference func(time.Time) (string, error)
}

// NewBookingService wires a service over store.  pub and cache may be nil.
func NewBookingService(store repository.Store, pub queue.Publisher, cache Invalidator) *BookingService {
	return &BookingService{
		Store:        store,
		Publisher:    pub,
		Cache:        cache,
		now:          time.Now,
		newReference: NewReference,
	}
}

// Seats returns the current availability snapshot.
func (s *BookingService) Seats(ctx context.Context) ([]model.Seat, error) {
	seats, err := s.Store.ListSeats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	return seats, nil
}

// Suggest proposes count seats from a fresh snapshot.  The proposal is
// advisory; Book re-checks availability.
func (s *BookingService) Suggest(ctx context.Context, count int) ([]int, error) {
	if count < 1 || count > seating.MaxSeatsPerBooking {
		return nil, seating.ErrInvalidSeatCount
	}
	seats, err := s.Seats(ctx)
	if err != nil {
		return nil, err
	}
	return seating.SelectSeats(seats, count, nil)
}

// ValidateSeatIDs rejects empty, oversized, repeated or out-of-range
// seat id lists.
func ValidateSeatIDs(ids []int) error {
	if len(ids) == 0 || len(ids) > seating.MaxSeatsPerBooking {
		return seating.ErrInvalidSeatIDs
	}
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seating.ValidSeatID(id) || seen[id] {
			return seating.ErrInvalidSeatIDs
		}
		seen[id] = true
	}
	return nil
}

// Book reserves seatIDs for userID.  Either the booking is stored and
// every seat flipped to unavailable, or nothing changes.  Seats taken in
// the meantime are reported through *seating.SeatsUnavailableError.
func (s *BookingService) Book(ctx context.Context, seatIDs []int, userID uint64) (*model.Booking, error) {
	if err := ValidateSeatIDs(seatIDs); err != nil {
		return nil, err
	}

	var booking *model.Booking
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		seats, err := tx.LockSeats(ctx, seatIDs)
		if err != nil {
			return err
		}
		if len(seats) != len(seatIDs) {
			return seating.ErrInvalidSeatIDs
		}
		var taken []int
		for _, seat := range seats {
			if !seat.IsAvailable {
				taken = append(taken, seat.SeatNumber)
			}
		}
		if len(taken) > 0 {
			return &seating.SeatsUnavailableError{SeatNumbers: taken}
		}

		b := &model.Booking{
			UserID:  userID,
			SeatIDs: append([]int(nil), seatIDs...),
			Status:  model.BookingActive,
		}
		if err := s.insertWithReference(ctx, tx, b); err != nil {
			return err
		}
		if err := tx.SetSeatsAvailable(ctx, seatIDs, false); err != nil {
			return err
		}
		b.SeatNumbers = seatNumbers(seats, seatIDs)
		booking = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("book seats: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"user_id":    userID,
		"seats":      booking.SeatIDs,
	}).Info("booking confirmed")
	s.afterCommit(ctx, queue.NewBookingEvent(queue.EventBookingConfirmed, booking))
	return booking, nil
}

// insertWithReference stores b, regenerating its reference when the
// store reports a collision.
func (s *BookingService) insertWithReference(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	for attempt := 1; ; attempt++ {
		ref, err := s.newReference(s.now())
		if err != nil {
			return fmt.Errorf("generate reference: %w", err)
		}
		b.Reference = ref
		err = tx.CreateBooking(ctx, b)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) || attempt >= maxReferenceAttempts {
			return err
		}
		logrus.WithField("reference", ref).Debug("booking reference collision; regenerating")
	}
}

// Cancel cancels the caller's booking and releases its seats.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID uint64) error {
	var cancelled *model.Booking
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		// Seat rows are locked before the booking row, the same order
		// Book and Reset use.  A booking's seat ids never change.
		b, err := tx.GetBookingForUser(ctx, bookingID, userID)
		if errors.Is(err, repository.ErrBookingNotFound) {
			return seating.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !b.IsActive() {
			return seating.ErrAlreadyCancelled
		}
		if _, err := tx.LockSeats(ctx, b.SeatIDs); err != nil {
			return err
		}
		b, err = tx.LockBookingForUser(ctx, bookingID, userID)
		if errors.Is(err, repository.ErrBookingNotFound) {
			return seating.ErrNotFound
		}
		if err != nil {
			return err
		}
		if !b.IsActive() {
			return seating.ErrAlreadyCancelled
		}
		if err := tx.SetBookingStatus(ctx, b.ID, model.BookingCancelled); err != nil {
			return err
		}
		if err := tx.SetSeatsAvailable(ctx, b.SeatIDs, true); err != nil {
			return err
		}
		b.Status = model.BookingCancelled
		cancelled = b
		return nil
	})
	if err != nil {
		return fmt.Errorf("cancel booking %d: %w", bookingID, err)
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("booking cancelled")
	s.afterCommit(ctx, queue.NewBookingEvent(queue.EventBookingCancelled, cancelled))
	return nil
}

// Reset cancels every active booking and makes all seats available.
func (s *BookingService) Reset(ctx context.Context) error {
	var cancelled int64
	err := s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.LockAllSeats(ctx); err != nil {
			return err
		}
		n, err := tx.CancelActiveBookings(ctx)
		if err != nil {
			return err
		}
		if err := tx.SetAllSeatsAvailable(ctx); err != nil {
			return err
		}
		cancelled = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset seats: %w", err)
	}

	logrus.WithField("cancelled", cancelled).Info("all seats reset")
	s.afterCommit(ctx, queue.NewResetEvent(cancelled))
	return nil
}

// ListBookings returns the user's bookings newest first, cancelled ones
// included.
func (s *BookingService) ListBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	bookings, err := s.Store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// afterCommit invalidates the seat map cache and publishes ev.  The
// request context may already be cancelled by the time the client goes
// away, so both run on a detached context with a short deadline.
func (s *BookingService) afterCommit(ctx context.Context, ev queue.BookingEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			logrus.WithError(err).Warn("seat map cache invalidation failed")
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, ev); err != nil {
			logrus.WithError(err).WithField("event", ev.Type).Warn("event publish failed")
		}
	}
}

// seatNumbers maps ids, in request order, to the numbers of the locked seats.
func seatNumbers(seats []model.Seat, ids []int) []int {
	byID := make(map[int]int, len(seats))
	for _, seat := range seats {
		byID[seat.ID] = seat.SeatNumber
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = byID[id]
	}
	return out
}
