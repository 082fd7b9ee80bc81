package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	seats := Layout()
	assert.Len(t, seats, TotalSeats)
	assert.Equal(t, 12, Rows())

	rows := GroupByRow(seats)
	assert.Len(t, rows, 12)
	for row := 1; row <= 11; row++ {
		assert.Len(t, rows[row], SeatsPerRow, "row %d", row)
	}
	last := rows[12]
	if assert.Len(t, last, 3) {
		assert.Equal(t, []int{78, 79, 80}, []int{last[0].ID, last[1].ID, last[2].ID})
		assert.Equal(t, 3, last[2].SeatPosition)
	}
}

func TestRowAndPosition(t *testing.T) {
	cases := []struct{ id, row, pos int }{
		{1, 1, 1}, {7, 1, 7}, {8, 2, 1}, {15, 3, 1}, {18, 3, 4}, {77, 11, 7}, {80, 12, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.row, RowOf(c.id), "row of %d", c.id)
		assert.Equal(t, c.pos, PositionOf(c.id), "position of %d", c.id)
	}
	assert.False(t, ValidSeatID(0))
	assert.False(t, ValidSeatID(81))
	assert.True(t, ValidSeatID(80))
}

func TestSeatsUnavailableErrorMessage(t *testing.T) {
	err := &SeatsUnavailableError{SeatNumbers: []int{3, 4}}
	assert.Equal(t, "some seats are not available: 3,4", err.Error())
	assert.ErrorIs(t, err, ErrSeatsUnavailable)
	assert.False(t, Retryable(err))
}
