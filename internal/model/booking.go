package model

import "time"

// Booking status values stored in bookings.status.
const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
)

// Booking is a reservation of one to seven seats by a single user.  A
// booking is created as active and may only move to cancelled; rows are
// never deleted so they double as an audit trail.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who created the booking.
//  Reference   – unique human readable code, e.g. TB1718000000000X7QK.
//  SeatIDs     – reserved seat ids in request order.
//  SeatNumbers – seat numbers resolved when reading bookings back.
//  Status      – BookingActive or BookingCancelled.
//  CreatedAt   – creation timestamp (UTC).
type Booking struct {
	ID          uint64    // bookings.id
	UserID      uint64    // bookings.user_id
	Reference   string    // bookings.reference
	SeatIDs     []int     // bookings.seat_ids (JSON array)
	SeatNumbers []int     // resolved from seats.seat_number
	Status      string    // bookings.status
	CreatedAt   time.Time // bookings.created_at
}

// IsActive reports whether the booking still holds its seats.
func (b *Booking) IsActive() bool { return b.Status == BookingActive }
