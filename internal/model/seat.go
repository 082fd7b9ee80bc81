package model

// Seat describes one of the fixed seats of the coach.  Seats are
// created once when the store is initialised and never deleted; only
// IsAvailable changes over time.
//
// Fields:
//  ID           – seat identifier (1..80).
//  SeatNumber   – number printed on the seat, equal to ID.
//  RowNumber    – row the seat belongs to (1-based).
//  SeatPosition – position within the row (1-based).
//  IsAvailable  – false while an active booking references the seat.
type Seat struct {
	ID           int  // seats.id
	SeatNumber   int  // seats.seat_number
	RowNumber    int  // seats.row_number
	SeatPosition int  // seats.seat_position
	IsAvailable  bool // seats.is_available
}
