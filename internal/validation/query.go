package validation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/call-detail-billing/internal/domain/billing"
)

// BillQuery is a validated monthly bill request
type BillQuery struct {
	Number string
	Period billing.Period
}

// ParseBillQuery validates the bill query parameters. An empty period
// defaults to the month before now; now also decides which months are closed.
func ParseBillQuery(number, period string, now time.Time) (BillQuery, error) {
	if number == "" {
		return BillQuery{}, fieldError("number", msgRequired)
	}

	if period == "" {
		period = billing.PreviousPeriod(now).String()
	}

	if !IsPhoneNumber(number) {
		return BillQuery{}, fieldError("number", fmt.Sprintf(msgPhoneNumberFormat, "number"))
	}

	parsed, err := billing.ParsePeriod(period)
	if err != nil {
		return BillQuery{}, fieldError("period", msgPeriodFormat)
	}

	if !parsed.IsClosed(now) {
		return BillQuery{}, fieldError("period", msgPeriodNotClosed)
	}

	return BillQuery{Number: number, Period: parsed}, nil
}

// ParseCallID validates a call id taken from a URL path segment
func ParseCallID(raw string) (int64, error) {
	if raw == "" {
		return 0, fieldError("call_id", msgRequired)
	}
	callID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fieldError("call_id", msgCallIDNotInteger)
	}
	return callID, nil
}
