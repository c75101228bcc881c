package billing

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/call-detail-billing/internal/domain/shared"
)

var (
	ErrInvalidPeriodFormat = errors.New("period must be in the format MM/YYYY")
	ErrPeriodNotClosed     = errors.New("period is not a closed month")
)

var periodPattern = regexp.MustCompile(`^[0-9]{2}/[0-9]{4}$`)

// Period is a billing month
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses "MM/YYYY"
func ParsePeriod(value string) (Period, error) {
	if !periodPattern.MatchString(value) {
		return Period{}, ErrInvalidPeriodFormat
	}

	month, _ := strconv.Atoi(value[:2])
	year, _ := strconv.Atoi(value[3:])
	if month < 1 || month > 12 || year < 1 {
		return Period{}, ErrInvalidPeriodFormat
	}

	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf returns the billing month containing t, read in t's location.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// PreviousPeriod returns the month before the one containing now.
func PreviousPeriod(now time.Time) Period {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return PeriodOf(firstOfMonth.AddDate(0, 0, -1))
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IsClosed reports whether p ended before the month containing now.
func (p Period) IsClosed(now time.Time) bool {
	return p.Before(PeriodOf(now))
}

func (p Period) String() string {
	return p.Start().Format(shared.PeriodLayout)
}

// Start returns the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}
