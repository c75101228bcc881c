package archive

import (
	"context"
	"strconv"
)

// Repository manages archived call persistence
type Repository interface {
	// Upsert replaces any archived copy of the same call built from an older
	// outbox message. Returns ErrStaleEntry if a newer copy is already archived.
	Upsert(ctx context.Context, entry *Entry) error
	GetByCallID(ctx context.Context, callID int64) (*Entry, error)
}

// ErrEntryNotFound indicates the call has not been archived
type ErrEntryNotFound struct {
	CallID int64
}

func (e ErrEntryNotFound) Error() string {
	return "archived call not found: " + strconv.FormatInt(e.CallID, 10)
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// If the target CallID is zero, consider it a match for any ErrEntryNotFound
	if t.CallID == 0 {
		return true
	}
	return e.CallID == t.CallID
}

// ErrIncompleteCall indicates an attempt to archive a call missing one of its halves
type ErrIncompleteCall struct {
	CallID int64
}

func (e ErrIncompleteCall) Error() string {
	return "call is not completed: " + strconv.FormatInt(e.CallID, 10)
}

// ErrStaleEntry indicates the archive already holds a copy of the call built
// from a newer outbox message
type ErrStaleEntry struct {
	CallID   int64
	OutboxID int64
}

func (e ErrStaleEntry) Error() string {
	return "newer archived copy exists for call " + strconv.FormatInt(e.CallID, 10) +
		", skipping outbox message " + strconv.FormatInt(e.OutboxID, 10)
}
