package seating

import (
	"sort"

	"github.com/iliyamo/seat-booking/internal/model"
)

// SelectSeats picks count seats from the availability snapshot.
//
// The row with the most free seats that can hold the whole group wins
// (lowest row number on ties) and its first count seats by position are
// returned.  When no single row fits the group, the count lowest seats
// in (row, position) order are returned instead.  Seats listed in
// alreadySelected are treated as taken.  The snapshot is advisory; the
// booking transaction re-validates every seat.
func SelectSeats(seats []model.Seat, count int, alreadySelected map[int]bool) ([]int, error) {
	if count < 1 || count > MaxSeatsPerBooking {
		return nil, ErrInvalidSeatCount
	}

	free := make([]model.Seat, 0, len(seats))
	for _, s := range seats {
		if s.IsAvailable && !alreadySelected[s.ID] {
			free = append(free, s)
		}
	}
	if len(free) < count {
		return nil, &InsufficientAvailabilityError{Available: len(free)}
	}

	sort.Slice(free, func(i, j int) bool {
		if free[i].RowNumber != free[j].RowNumber {
			return free[i].RowNumber < free[j].RowNumber
		}
		return free[i].SeatPosition < free[j].SeatPosition
	})

	bestRow, bestCap := 0, 0
	byRow := GroupByRow(free)
	for row, rs := range byRow {
		if len(rs) < count {
			continue
		}
		if len(rs) > bestCap || (len(rs) == bestCap && row < bestRow) {
			bestRow, bestCap = row, len(rs)
		}
	}

	pick := free[:count]
	if bestCap > 0 {
		pick = byRow[bestRow][:count]
	}
	ids := make([]int, len(pick))
	for i, s := range pick {
		ids[i] = s.ID
	}
	return ids, nil
}
