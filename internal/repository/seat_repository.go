package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"strings"

	"github.com/iliyamo/seat-booking/internal/model"
)

// SeatRepo provides methods to work with the seats table.  Seats are
// seeded once and afterwards only their is_available flag changes.
// `row_number` is quoted because it is a reserved word in MySQL 8.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = "id, seat_number, `row_number`, seat_position, is_available"

// Seed inserts the given seats, skipping ids that already exist, so it
// can run on every start without touching availability.
func (r *SeatRepo) Seed(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := "INSERT IGNORE INTO seats (" + seatColumns + ") VALUES "
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.ID, s.SeatNumber, s.RowNumber, s.SeatPosition, s.IsAvailable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// List returns every seat ordered by row then position.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+seatColumns+" FROM seats ORDER BY `row_number`, seat_position")
	if err != nil {
		return nil, err
	}
	return scanSeats(rows)
}

// SeatNumbers maps seat id to seat number for every seat.
func (r *SeatRepo) SeatNumbers(ctx context.Context) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, seat_number FROM seats")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int]int, 80)
	for rows.Next() {
		var id, num int
		if err := rows.Scan(&id, &num); err != nil {
			return nil, err
		}
		out[id] = num
	}
	return out, rows.Err()
}

// LockByIDsTx selects the given seats with FOR UPDATE inside tx.  Rows
// are locked in ascending id order so two transactions asking for
// overlapping seats queue up instead of deadlocking.
func (r *SeatRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, ids []int) ([]model.Seat, error) {
	if len(ids) == 0 {
		return []model.Seat{}, nil
	}
	query := "SELECT " + seatColumns + " FROM seats WHERE id IN (" + placeholders(len(ids)) + ") ORDER BY id FOR UPDATE"
	rows, err := tx.QueryContext(ctx, query, intArgs(ids)...)
	if err != nil {
		return nil, err
	}
	return scanSeats(rows)
}

// LockAllTx locks every seat row inside tx and returns the row count.
func (r *SeatRepo) LockAllTx(ctx context.Context, tx *sql.Tx) (int, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM seats ORDER BY id FOR UPDATE")
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// SetAvailabilityTx flips is_available for the given seats.
func (r *SeatRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, ids []int, available bool) error {
	if len(ids) == 0 {
		return nil
	}
	args := append([]interface{}{available}, intArgs(ids)...)
	_, err := tx.ExecContext(ctx,
		"UPDATE seats SET is_available = ? WHERE id IN ("+placeholders(len(ids))+")", args...)
	return err
}

// SetAllAvailableTx marks every seat available.
func (r *SeatRepo) SetAllAvailableTx(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "UPDATE seats SET is_available = TRUE")
	return err
}

func scanSeats(rows *sql.Rows) ([]model.Seat, error) {
	defer rows.Close()
	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.SeatNumber, &s.RowNumber, &s.SeatPosition, &s.IsAvailable); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func intArgs(ids []int) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
