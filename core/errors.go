package core

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Validation failures are reported to the caller as-is and are never retried
// by the engine; the caller resubmits with corrected input.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidState           = errors.New("item state does not allow this operation")
	ErrDuplicateRequest       = errors.New("an open request for this item, user and type already exists")
	ErrDuplicateSerial        = errors.New("serial number already exists")
	ErrDuplicateUsername      = errors.New("username already taken")
	ErrNotAuthorizedForReturn = errors.New("only the current borrower may request a return")
	ErrInvalidRequestType     = errors.New("unknown request type")
	ErrUnauthorized           = errors.New("unauthorized")
)

// Concurrency conflicts. ErrStatusConflict is the store-level signal that a
// guarded status transition lost the race; the engine surfaces it to approvers
// as ErrRequestNoLongerPending so they refresh and re-decide.
var (
	ErrStatusConflict         = errors.New("item status changed concurrently")
	ErrRequestNoLongerPending = errors.New("request is no longer pending")
)

// StorageError marks a backing-store failure that aborted the whole
// operation. The surrounding transaction guarantees nothing partial landed.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

func storagef(err error, msg string) error {
	return &StorageError{Err: pkgerrors.Wrap(err, msg)}
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
