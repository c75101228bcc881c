package validation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent_Valid(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		body := `{"call_id": 11, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": "11987654321", "destination": "11123456789"}`

		event, err := DecodeEvent([]byte(body))

		require.NoError(t, err)
		start, ok := event.(callrecord.StartEvent)
		require.True(t, ok)
		assert.Equal(t, int64(11), start.CallID)
		assert.Equal(t, "11987654321", start.Source)
		assert.Equal(t, "11123456789", start.Destination)
		assert.Equal(t, time.Date(2016, time.February, 29, 12, 0, 0, 0, time.UTC), start.Timestamp)
	})

	t.Run("end ignores source and destination", func(t *testing.T) {
		body := `{"call_id": 11, "type": "end", "timestamp": "2016-02-29T12:00:00Z", "source": 12, "destination": "abc"}`

		event, err := DecodeEvent([]byte(body))

		require.NoError(t, err)
		end, ok := event.(callrecord.EndEvent)
		require.True(t, ok)
		assert.Equal(t, int64(11), end.CallID)
		assert.Equal(t, time.Date(2016, time.February, 29, 12, 0, 0, 0, time.UTC), end.Timestamp)
	})
}

func TestDecodeEvent_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{"not an object", `[1, 2]`, "non_field_errors", "Invalid data. Expected a dictionary."},
		{"malformed json", `{"call_id": `, "non_field_errors", "Invalid data. Expected a dictionary."},
		{"null body", `null`, "non_field_errors", "Invalid data. Expected a dictionary."},
		{"missing call_id", `{"type": "end", "timestamp": "2016-02-29T12:00:00Z"}`, "call_id", "This field is required."},
		{"zero call_id", `{"call_id": 0, "type": "end", "timestamp": "2016-02-29T12:00:00Z"}`, "call_id", "This field is required."},
		{"missing type", `{"call_id": 1, "timestamp": "2016-02-29T12:00:00Z"}`, "type", "This field is required."},
		{"empty type", `{"call_id": 1, "type": "", "timestamp": "2016-02-29T12:00:00Z"}`, "type", "This field is required."},
		{"missing timestamp", `{"call_id": 1, "type": "end"}`, "timestamp", "This field is required."},
		{"call_id checked before timestamp", `{"type": "end"}`, "call_id", "This field is required."},
		{"start without source", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "destination": "11123456789"}`, "source", "This field is required if call type is start."},
		{"start without destination", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": "11123456789"}`, "destination", "This field is required if call type is start."},
		{"source required before timestamp type", `{"call_id": 1, "type": "start", "timestamp": 5}`, "source", "This field is required if call type is start."},
		{"timestamp not a string", `{"call_id": 1, "type": "end", "timestamp": 20160229}`, "timestamp", "timestamp must be a string."},
		{"call_id as string", `{"call_id": "1", "type": "end", "timestamp": "2016-02-29T12:00:00Z"}`, "call_id", "call_id must be an integer."},
		{"call_id as float", `{"call_id": 1.5, "type": "end", "timestamp": "2016-02-29T12:00:00Z"}`, "call_id", "call_id must be an integer."},
		{"call_id as bool", `{"call_id": true, "type": "end", "timestamp": "2016-02-29T12:00:00Z"}`, "call_id", "call_id must be an integer."},
		{"call_id before source type", `{"call_id": "x", "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": 1, "destination": 2}`, "call_id", "call_id must be an integer."},
		{"source not a string", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": 11987654321, "destination": "11123456789"}`, "source", "source must be a string."},
		{"destination not a string", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": "11987654321", "destination": 11123456789}`, "destination", "destination must be a string."},
		{"unknown type", `{"call_id": 1, "type": "middle", "timestamp": "2016-02-29T12:00:00Z"}`, "type", `type must be a string with value "start" or "end".`},
		{"type not a string", `{"call_id": 1, "type": 3, "timestamp": "2016-02-29T12:00:00Z"}`, "type", `type must be a string with value "start" or "end".`},
		{"type checked before timestamp format", `{"call_id": 1, "type": "START", "timestamp": "yesterday"}`, "type", `type must be a string with value "start" or "end".`},
		{"timestamp without zone", `{"call_id": 1, "type": "end", "timestamp": "2016-02-29T12:00:00"}`, "timestamp", `timestamp must be in the format: "YYYY-MM-DDThh:mm:ssZ"`},
		{"timestamp with offset", `{"call_id": 1, "type": "end", "timestamp": "2016-02-29T12:00:00+03:00"}`, "timestamp", `timestamp must be in the format: "YYYY-MM-DDThh:mm:ssZ"`},
		{"impossible date", `{"call_id": 1, "type": "end", "timestamp": "2015-02-29T12:00:00Z"}`, "timestamp", `timestamp must be in the format: "YYYY-MM-DDThh:mm:ssZ"`},
		{"timestamp checked before source format", `{"call_id": 1, "type": "start", "timestamp": "bad", "source": "1", "destination": "2"}`, "timestamp", `timestamp must be in the format: "YYYY-MM-DDThh:mm:ssZ"`},
		{"short source", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": "123456789", "destination": "11123456789"}`, "source", "source must be a string of 10 or 11 digits."},
		{"long source", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": "119876543210", "destination": "11123456789"}`, "source", "source must be a string of 10 or 11 digits."},
		{"non digit destination", `{"call_id": 1, "type": "start", "timestamp": "2016-02-29T12:00:00Z", "source": "11987654321", "destination": "1112345678a"}`, "destination", "destination must be a string of 10 or 11 digits."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := DecodeEvent([]byte(tt.body))

			assert.Nil(t, event)
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, map[string]string{tt.field: tt.message}, fieldErr.Map())
		})
	}
}

func TestParseEvent_NativeIntegers(t *testing.T) {
	event, err := ParseEvent(map[string]interface{}{
		"call_id":   int64(99),
		"type":      "end",
		"timestamp": "2019-09-30T08:40:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(99), event.ID())
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank(nil))
	assert.True(t, isBlank(""))
	assert.True(t, isBlank(false))
	assert.True(t, isBlank(json.Number("0")))
	assert.True(t, isBlank([]interface{}{}))
	assert.True(t, isBlank(map[string]interface{}{}))
	assert.False(t, isBlank(json.Number("7")))
	assert.False(t, isBlank("x"))
	assert.False(t, isBlank(true))
}

func TestFieldError(t *testing.T) {
	err := EndBeforeStartError()
	assert.Equal(t, "timestamp: timestamp must not be earlier than the call start.", err.Error())
	assert.Equal(t, map[string]string{"timestamp": "timestamp must not be earlier than the call start."}, err.Map())
}
