package storage

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicateID is returned when inserting a job whose id already exists.
	ErrDuplicateID = errors.New("job id already exists")

	// ErrNotFound is returned when a job or config key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotInDLQ is returned when a DLQ retry targets a job that is not dead.
	ErrNotInDLQ = errors.New("job is not in the dead letter queue")

	// ErrBadConfig is returned for unknown config keys or invalid values.
	ErrBadConfig = errors.New("invalid configuration")
)

// IsBusy reports whether err is a transient SQLite write-lock conflict.
// Callers treat these as retriable and try again on the next poll.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func isDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
