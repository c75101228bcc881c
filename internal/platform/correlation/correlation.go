// Package correlation validates the ids that tie a request or event to its logs
// and to the outbox row it may produce.
package correlation

import "github.com/google/uuid"

// Header is the HTTP and Kafka header carrying the correlation id
const Header = "X-Correlation-ID"

// MaxLength matches the width of the call_outbox.correlation_id column
const MaxLength = 64

// IsUsable reports whether id is 1 to MaxLength printable ASCII characters
func IsUsable(id string) bool {
	if id == "" || len(id) > MaxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// Resolve returns id when it is usable and a fresh UUID otherwise
func Resolve(id string) string {
	if IsUsable(id) {
		return id
	}
	return uuid.NewString()
}
