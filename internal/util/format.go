package util //nolint:revive // package name util hosts shared formatting helpers used across CLI output

import "fmt"

// FormatShiftDuration formats a shift length in minutes for display.
// Returns "—" for zero or negative durations; hours are split out so an
// eight-hour shift reads "8h" rather than "480m".
func FormatShiftDuration(minutes int) string {
	if minutes <= 0 {
		return "—"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
