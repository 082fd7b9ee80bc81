package seating

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidSeatCount is returned when a requested seat count is outside 1..7.
	ErrInvalidSeatCount = errors.New("must select between 1 and 7 seats")

	// ErrInsufficientAvailability is matched by InsufficientAvailabilityError.
	ErrInsufficientAvailability = errors.New("not enough seats available")

	// ErrInvalidSeatIDs is returned when a booking names an unknown or repeated seat.
	ErrInvalidSeatIDs = errors.New("invalid seat IDs provided")

	// ErrSeatsUnavailable is matched by SeatsUnavailableError.
	ErrSeatsUnavailable = errors.New("some seats are not available")

	// ErrNotFound is returned when a booking does not exist for the caller.
	ErrNotFound = errors.New("booking not found")

	// ErrAlreadyCancelled is returned when cancelling a booking that is not active.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrStoreUnavailable wraps transaction and infrastructure failures.
	// It is the only kind callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InsufficientAvailabilityError carries how many seats were left when an
// allocation could not be satisfied.
type InsufficientAvailabilityError struct {
	Available int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("only %d seats available", e.Available)
}

func (e *InsufficientAvailabilityError) Is(target error) bool {
	return target == ErrInsufficientAvailability
}

// SeatsUnavailableError lists the seat numbers that were already taken
// when a booking transaction re-checked availability.
type SeatsUnavailableError struct {
	SeatNumbers []int
}

func (e *SeatsUnavailableError) Error() string {
	parts := make([]string, len(e.SeatNumbers))
	for i, n := range e.SeatNumbers {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s: %s", ErrSeatsUnavailable.Error(), strings.Join(parts, ","))
}

func (e *SeatsUnavailableError) Is(target error) bool {
	return target == ErrSeatsUnavailable
}

// Retryable reports whether err is worth retrying by the caller.
func Retryable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }
