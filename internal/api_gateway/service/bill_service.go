package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/call-detail-billing/internal/domain/billing"
	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/domain/shared"
	"github.com/call-detail-billing/internal/validation"
)

// Bill is a subscriber's statement for one closed month
type Bill struct {
	Number      string     `json:"number"`
	Period      string     `json:"period"`
	CallRecords []BillLine `json:"call_records"`
}

// BillLine is one completed call as printed on a bill
type BillLine struct {
	Destination   string `json:"destination"`
	CallStartDate string `json:"call_start_date"`
	CallStartTime string `json:"call_start_time"`
	CallDuration  string `json:"call_duration"`
	CallPrice     string `json:"call_price"`
}

// BillServiceImpl implements the BillService interface
type BillServiceImpl struct {
	records  CompletedCallLister
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewBillService creates a bill service. location decides which month is
// current; now defaults to time.Now.
func NewBillService(logger *slog.Logger, records CompletedCallLister, location *time.Location, now func() time.Time) BillService {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &BillServiceImpl{
		records:  records,
		location: location,
		now:      now,
		logger:   logger,
	}
}

// GetBill returns the completed calls placed by number in period, ordered by start
func (s *BillServiceImpl) GetBill(ctx context.Context, number, period string) (*Bill, error) {
	query, err := validation.ParseBillQuery(number, period, s.now().In(s.location))
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListCompleted(ctx, query.Number, query.Period.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list calls of %s in %s: %w", query.Number, query.Period, err)
	}

	bill := &Bill{
		Number:      query.Number,
		Period:      query.Period.String(),
		CallRecords: make([]BillLine, 0, len(records)),
	}
	for _, record := range records {
		line, ok := billLineOf(record)
		if !ok {
			s.logger.Warn("Skipping incomplete call record in bill", "call_id", record.CallID)
			continue
		}
		bill.CallRecords = append(bill.CallRecords, line)
	}

	return bill, nil
}

func billLineOf(record *callrecord.CallRecord) (BillLine, bool) {
	if !record.IsCompleted || record.StartedAt == nil || record.Duration == nil || record.Price == nil {
		return BillLine{}, false
	}

	startedAt := record.StartedAt.UTC()
	line := BillLine{
		CallStartDate: startedAt.Format(shared.DateLayout),
		CallStartTime: startedAt.Format(shared.TimeLayout),
		CallDuration:  billing.FormatDuration(*record.Duration),
		CallPrice:     billing.FormatPrice(*record.Price),
	}
	if record.Destination != nil {
		line.Destination = *record.Destination
	}
	return line, true
}
