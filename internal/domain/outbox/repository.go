package outbox

import (
	"context"
	"strconv"

	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/jackc/pgx/v5"
)

// Repository stores completed-call announcements until they are archived
type Repository interface {
	// Create queues a message, normally inside the merge transaction
	Create(ctx context.Context, message *Message) error

	// GetPending returns up to limit PENDING messages, oldest first
	GetPending(ctx context.Context, limit int) ([]*Message, error)

	UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error

	// IncrementAttempts records one failed delivery and stamps last_attempt_at
	IncrementAttempts(ctx context.Context, id int64) error
	WithTx(tx pgx.Tx) Repository
}

// ErrMessageNotFound indicates no outbox row has the given id
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}

// Is matches another ErrMessageNotFound; a zero ID matches any message
func (e ErrMessageNotFound) Is(target error) bool {
	t, ok := target.(ErrMessageNotFound)
	return ok && (t.ID == 0 || t.ID == e.ID)
}
