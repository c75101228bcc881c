package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/shared"
)

var phoneNumberPattern = regexp.MustCompile(`^[0-9]{10,11}$`)

// DecodeEvent parses a JSON call event body into a StartEvent or EndEvent.
// Any failure is a *FieldError.
func DecodeEvent(body []byte) (callrecord.Event, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil || payload == nil {
		return nil, fieldError(NonFieldErrors, msgExpectedObject)
	}
	return ParseEvent(payload)
}

// ParseEvent validates an untyped call event. Numbers are expected as
// json.Number, as produced by a decoder with UseNumber enabled.
func ParseEvent(payload map[string]interface{}) (callrecord.Event, error) {
	rawCallID := payload["call_id"]
	rawType := payload["type"]
	rawTimestamp := payload["timestamp"]
	rawSource := payload["source"]
	rawDestination := payload["destination"]

	for _, field := range []string{"call_id", "type", "timestamp"} {
		if isBlank(payload[field]) {
			return nil, fieldError(field, msgRequired)
		}
	}

	eventType, _ := rawType.(string)
	isStart := eventType == string(shared.EventTypeStart)

	if isStart {
		if isBlank(rawSource) {
			return nil, fieldError("source", msgRequiredIfStart)
		}
		if isBlank(rawDestination) {
			return nil, fieldError("destination", msgRequiredIfStart)
		}
	}

	timestamp, ok := rawTimestamp.(string)
	if !ok {
		return nil, fieldError("timestamp", msgTimestampNotString)
	}

	callID, ok := asInteger(rawCallID)
	if !ok {
		return nil, fieldError("call_id", msgCallIDNotInteger)
	}

	var source, destination string
	if isStart {
		if source, ok = rawSource.(string); !ok {
			return nil, fieldError("source", fmt.Sprintf(msgNotStringFormat, "source"))
		}
		if destination, ok = rawDestination.(string); !ok {
			return nil, fieldError("destination", fmt.Sprintf(msgNotStringFormat, "destination"))
		}
	}

	if eventType != string(shared.EventTypeStart) && eventType != string(shared.EventTypeEnd) {
		return nil, fieldError("type", msgTypeInvalid)
	}

	at, err := time.Parse(shared.TimestampLayout, timestamp)
	if err != nil {
		return nil, fieldError("timestamp", msgTimestampFormat)
	}

	if !isStart {
		return callrecord.EndEvent{CallID: callID, Timestamp: at}, nil
	}

	if !IsPhoneNumber(source) {
		return nil, fieldError("source", fmt.Sprintf(msgPhoneNumberFormat, "source"))
	}
	if !IsPhoneNumber(destination) {
		return nil, fieldError("destination", fmt.Sprintf(msgPhoneNumberFormat, "destination"))
	}

	return callrecord.StartEvent{
		CallID:      callID,
		Source:      source,
		Destination: destination,
		Timestamp:   at,
	}, nil
}

// IsPhoneNumber reports whether value is 10 or 11 decimal digits
func IsPhoneNumber(value string) bool {
	return phoneNumberPattern.MatchString(value)
}

// isBlank treats nil, zero, false and empty values as missing.
func isBlank(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func asInteger(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}
