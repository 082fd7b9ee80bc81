package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/seat-booking/internal/model"
	"github.com/iliyamo/seat-booking/internal/seating"
	"github.com/iliyamo/seat-booking/internal/utils"
)

// MemoryStore keeps seats, bookings and users in process memory.  It is
// used for local development (STORE_DRIVER=memory) and tests.  One
// mutex is held for the whole of WithTx, which makes every transaction
// serializable; writes are staged on copies and only swapped in when
// the callback succeeds.  It offers no coordination across processes.
type MemoryStore struct {
	mu       sync.Mutex
	seats    []model.Seat
	bookings []model.Booking
	nextID   uint64
	users    []model.User
	now      func() time.Time
}

// NewMemoryStore returns a store seeded with the coach layout.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seats:  seating.Layout(),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithTx runs fn against a private copy of the state and publishes the
// copy only when fn returns nil.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return storeErr("begin transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		seats:    append([]model.Seat(nil), s.seats...),
		bookings: append([]model.Booking(nil), s.bookings...),
		nextID:   s.nextID,
		now:      s.now,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storeErr("commit transaction", err)
	}
	s.seats, s.bookings, s.nextID = tx.seats, tx.bookings, tx.nextID
	return nil
}

// ListSeats returns a copy of every seat ordered by row and position.
func (s *MemoryStore) ListSeats(ctx context.Context) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Seat(nil), s.seats...), nil
}

// ListBookingsByUser returns the user's bookings newest first.
func (s *MemoryStore) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	numbers := make(map[int]int, len(s.seats))
	for _, seat := range s.seats {
		numbers[seat.ID] = seat.SeatNumber
	}
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID != userID {
			continue
		}
		b.SeatIDs = append([]int(nil), b.SeatIDs...)
		b.SeatNumbers = resolveSeatNumbers(b.SeatIDs, numbers)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// CreateUser stores a user with a bcrypt hash of password.
func (s *MemoryStore) CreateUser(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	email = normalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return 0, ErrEmailExists
		}
	}
	u := model.User{
		ID:           uint64(len(s.users) + 1),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	s.users = append(s.users, u)
	return u.ID, nil
}

// GetUserByEmail returns ErrUserNotFound when no user matches.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

type memTx struct {
	seats    []model.Seat
	bookings []model.Booking
	nextID   uint64
	now      func() time.Time
}

// seatIndex returns the slice index of a seat id, or -1.
func (t *memTx) seatIndex(id int) int {
	if !seating.ValidSeatID(id) || id > len(t.seats) || t.seats[id-1].ID != id {
		return -1
	}
	return id - 1
}

func (t *memTx) LockSeats(ctx context.Context, ids []int) ([]model.Seat, error) {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	out := make([]model.Seat, 0, len(ids))
	for _, id := range sorted {
		if i := t.seatIndex(id); i >= 0 {
			out = append(out, t.seats[i])
		}
	}
	return out, nil
}

func (t *memTx) LockAllSeats(ctx context.Context) (int, error) { return len(t.seats), nil }

func (t *memTx) SetSeatsAvailable(ctx context.Context, ids []int, available bool) error {
	for _, id := range ids {
		if i := t.seatIndex(id); i >= 0 {
			t.seats[i].IsAvailable = available
		}
	}
	return nil
}

func (t *memTx) SetAllSeatsAvailable(ctx context.Context) error {
	for i := range t.seats {
		t.seats[i].IsAvailable = true
	}
	return nil
}

func (t *memTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	for _, existing := range t.bookings {
		if existing.Reference == b.Reference {
			return ErrDuplicateReference
		}
	}
	b.ID = t.nextID
	b.CreatedAt = t.now()
	t.nextID++
	stored := *b
	stored.SeatIDs = append([]int(nil), b.SeatIDs...)
	stored.SeatNumbers = nil
	t.bookings = append(t.bookings, stored)
	return nil
}

func (t *memTx) GetBookingForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	return t.LockBookingForUser(ctx, bookingID, userID)
}

func (t *memTx) LockBookingForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	for _, b := range t.bookings {
		if b.ID == bookingID && b.UserID == userID {
			b.SeatIDs = append([]int(nil), b.SeatIDs...)
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (t *memTx) SetBookingStatus(ctx context.Context, bookingID uint64, status string) error {
	for i := range t.bookings {
		if t.bookings[i].ID == bookingID {
			t.bookings[i].Status = status
			return nil
		}
	}
	return ErrBookingNotFound
}

func (t *memTx) CancelActiveBookings(ctx context.Context) (int64, error) {
	var n int64
	for i := range t.bookings {
		if t.bookings[i].Status == model.BookingActive {
			t.bookings[i].Status = model.BookingCancelled
			n++
		}
	}
	return n, nil
}
