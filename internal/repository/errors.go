// Package repository defines the seat and booking store used by the
// booking service, with a MySQL implementation and an in-memory one for
// development and tests.  The sentinel values below let higher layers
// distinguish failure scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/seat-booking/internal/seating"
)

// ErrBookingNotFound is returned when no booking matches the id and owner.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateReference is returned when a booking reference collides
// with an existing row.  The caller should generate a new reference and
// try again within the same transaction.
var ErrDuplicateReference = errors.New("duplicate booking reference")

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup yields no rows.
var ErrUserNotFound = errors.New("user not found")

// MySQL server error numbers the store reacts to.
const (
	errDupEntry        = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

// isLockConflict reports whether err was caused by InnoDB aborting the
// statement because of a lock conflict.
func isLockConflict(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == errDeadlock || me.Number == errLockWaitTimeout
}

// storeErr tags an infrastructure failure so callers can match it with
// seating.ErrStoreUnavailable while the driver error stays in the chain
// for logging.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, errors.Join(seating.ErrStoreUnavailable, err))
}
