package exporter

import (
	"strconv"
	"strings"
)

// formatFloat formats a float64 with the fewest digits that round-trip.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFixed formats a float64 with exactly prec decimals.
func formatFixed(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatSignal renders a day flag as 1 or 0.
func formatSignal(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// formatList joins values with "; " so a list fits one CSV cell.
func formatList(values []string) string {
	return strings.Join(values, "; ")
}
