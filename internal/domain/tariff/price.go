// Package tariff prices completed calls under the time-of-day tariff.
//
// Every call pays a standing charge. Whole minutes inside the standard window
// [06:00, 22:00) are charged per minute; minutes in the reduced window are free.
package tariff

import "time"

const (
	StandingCharge  int64 = 36
	PerMinuteCharge int64 = 9

	StandardStartHour = 6
	StandardEndHour   = 22
)

// ComputePrice returns the price in cents of a call between start and end.
// Both instants are read in UTC. end must not precede start.
func ComputePrice(start, end time.Time) int64 {
	start, end = start.UTC(), end.UTC()

	switch daysBetween(start, end) {
	case 0:
		return sameDayPrice(start, end)
	case 1:
		return nextDayPrice(start, end)
	default:
		// Calls crossing more than one midnight only pay the standing charge.
		return StandingCharge
	}
}

func sameDayPrice(start, end time.Time) int64 {
	bothLate := start.Hour() >= StandardEndHour && end.Hour() >= StandardEndHour
	bothEarly := start.Hour() < StandardStartHour && end.Hour() < StandardStartHour
	if bothLate || bothEarly {
		return StandingCharge
	}

	if start.Hour() < StandardStartHour {
		start = atHour(start, StandardStartHour)
	}
	if end.Hour() >= StandardEndHour {
		end = atHour(end, StandardEndHour)
	}

	return StandingCharge + PerMinuteCharge*wholeMinutes(start, end)
}

func nextDayPrice(start, end time.Time) int64 {
	if start.Hour() >= StandardEndHour && end.Hour() < StandardStartHour {
		return StandingCharge
	}

	var minutes int64
	if !isReduced(start.Hour()) {
		minutes += wholeMinutes(start, atHour(start, StandardEndHour))
	}
	if !isReduced(end.Hour()) {
		minutes += wholeMinutes(atHour(end, StandardStartHour), end)
	}

	return StandingCharge + PerMinuteCharge*minutes
}

func isReduced(hour int) bool {
	return hour < StandardStartHour || hour >= StandardEndHour
}

// atHour returns t's calendar day at the given hour, truncating minutes and seconds.
func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
}

func wholeMinutes(from, to time.Time) int64 {
	if to.Before(from) {
		return 0
	}
	return int64(to.Sub(from) / time.Minute)
}

// daysBetween counts calendar-day boundaries between two UTC instants.
func daysBetween(start, end time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(endDay.Sub(startDay).Hours() / 24)
}
