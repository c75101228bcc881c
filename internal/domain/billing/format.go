package billing

import "fmt"

// FormatDuration renders a second count as "{h}h{m}m{s}s" without padding.
func FormatDuration(totalSeconds int64) string {
	hours := totalSeconds / 3600
	minutes := totalSeconds % 3600 / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

// FormatPrice renders cents as "R$ D,CC".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("R$ %s%d,%02d", sign, cents/100, cents%100)
}
