// Package queue defines booking event payloads and the brokers they are
// exchanged over.
package queue

import (
	"context"
	"time"

	"github.com/iliyamo/seat-booking/internal/model"
)

// Event types carried in BookingEvent.Type.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventSeatsReset       = "seats.reset"
)

// BookingEvent is published after a booking transaction commits.  It
// carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  uint64 `json:"booking_id,omitempty"`
	UserID     uint64 `json:"user_id,omitempty"`
	Reference  string `json:"reference,omitempty"`
	SeatIDs    []int  `json:"seat_ids,omitempty"`
	Cancelled  int64  `json:"cancelled,omitempty"` // bookings cancelled by a reset
	OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent builds an event describing b.
func NewBookingEvent(typ string, b *model.Booking) BookingEvent {
	return BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Reference:  b.Reference,
		SeatIDs:    append([]int(nil), b.SeatIDs...),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewResetEvent builds the event emitted by a reset.
func NewResetEvent(cancelled int64) BookingEvent {
	return BookingEvent{
		Type:       EventSeatsReset,
		Cancelled:  cancelled,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Publisher delivers booking events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
	Close() error
}

// NopPublisher drops every event.  It is used when EVENTS_DRIVER=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, BookingEvent) error { return nil }
func (NopPublisher) Close() error                                { return nil }
