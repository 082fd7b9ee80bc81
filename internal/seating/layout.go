// Package seating holds the fixed coach layout, the seat allocator and
// the error kinds shared by every layer that books seats.
package seating

import (
	"sort"

	"github.com/iliyamo/seat-booking/internal/model"
)

const (
	// TotalSeats is the number of seats in the coach.
	TotalSeats = 80
	// SeatsPerRow is the width of every row except the last one.
	SeatsPerRow = 7
	// MaxSeatsPerBooking bounds both allocation and booking requests.
	MaxSeatsPerBooking = 7
)

// ValidSeatID reports whether id names one of the coach's seats.
func ValidSeatID(id int) bool { return id >= 1 && id <= TotalSeats }

// RowOf returns the 1-based row of a seat id.
func RowOf(id int) int { return (id + SeatsPerRow - 1) / SeatsPerRow }

// PositionOf returns the 1-based position of a seat id within its row.
func PositionOf(id int) int { return (id-1)%SeatsPerRow + 1 }

// Rows is the number of rows in the coach; the last row holds the
// remainder of TotalSeats.
func Rows() int { return RowOf(TotalSeats) }

// Layout returns every seat of the coach, all available, ordered by id.
// It is used to seed a fresh store.
func Layout() []model.Seat {
	seats := make([]model.Seat, 0, TotalSeats)
	for id := 1; id <= TotalSeats; id++ {
		seats = append(seats, model.Seat{
			ID:           id,
			SeatNumber:   id,
			RowNumber:    RowOf(id),
			SeatPosition: PositionOf(id),
			IsAvailable:  true,
		})
	}
	return seats
}

// GroupByRow buckets seats by row number, each row ordered by position.
func GroupByRow(seats []model.Seat) map[int][]model.Seat {
	rows := make(map[int][]model.Seat)
	for _, s := range seats {
		rows[s.RowNumber] = append(rows[s.RowNumber], s)
	}
	for _, r := range rows {
		sort.Slice(r, func(i, j int) bool { return r[i].SeatPosition < r[j].SeatPosition })
	}
	return rows
}
