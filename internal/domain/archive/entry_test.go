package archive

import (
	"testing"
	"time"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("CompletedCall", func(t *testing.T) {
		record := callrecord.NewCallRecord(70)
		require.NoError(t, record.Apply(callrecord.StartEvent{
			CallID: 70, Source: "2212345678", Destination: "3312345678",
			Timestamp: time.Date(2011, time.October, 13, 21, 57, 13, 0, time.UTC),
		}))
		require.NoError(t, record.Apply(callrecord.EndEvent{
			CallID: 70, Timestamp: time.Date(2011, time.October, 13, 22, 17, 53, 0, time.UTC),
		}))

		entry, err := NewEntry(record)

		require.NoError(t, err)
		assert.Equal(t, int64(70), entry.CallID)
		assert.Equal(t, "2212345678", entry.Source)
		assert.Equal(t, "3312345678", entry.Destination)
		assert.Equal(t, "10/2011", entry.ReferencePeriod)
		assert.Equal(t, int64(1240), entry.Duration)
		assert.Equal(t, int64(54), entry.Price)
		assert.False(t, entry.ArchivedAt.IsZero())
	})

	t.Run("IncompleteCall", func(t *testing.T) {
		record := callrecord.NewCallRecord(71)
		require.NoError(t, record.Apply(callrecord.EndEvent{CallID: 71, Timestamp: time.Now()}))

		entry, err := NewEntry(record)

		assert.Nil(t, entry)
		assert.ErrorAs(t, err, &ErrIncompleteCall{})
	})
}

func TestErrEntryNotFound_Is(t *testing.T) {
	err := ErrEntryNotFound{CallID: 3}
	assert.ErrorIs(t, err, ErrEntryNotFound{})
	assert.NotErrorIs(t, err, ErrEntryNotFound{CallID: 4})
}
