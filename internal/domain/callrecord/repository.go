package callrecord

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository defines call record persistence operations
type Repository interface {
	Create(ctx context.Context, record *CallRecord) error
	Update(ctx context.Context, record *CallRecord) error

	// LockForUpdate serializes merges on callID for the rest of the
	// transaction and returns the current record, if any.
	LockForUpdate(ctx context.Context, callID int64) (*CallRecord, error)

	// ListCompleted returns the completed calls placed by source whose end
	// fell in period, ordered by start.
	ListCompleted(ctx context.Context, source string, period string) ([]*CallRecord, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrCallRecordNotFound indicates no record exists for a call
type ErrCallRecordNotFound struct {
	CallID int64
}

func (e ErrCallRecordNotFound) Error() string {
	return "call record not found: " + strconv.FormatInt(e.CallID, 10)
}

// Is implements the errors.Is interface for ErrCallRecordNotFound
func (e ErrCallRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrCallRecordNotFound)
	if !ok {
		return false
	}
	// A zero CallID matches any missing record
	return t.CallID == 0 || t.CallID == e.CallID
}
