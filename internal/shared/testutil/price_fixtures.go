package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// PriceRow is one daily row of a price fixture.
type PriceRow struct {
	Date  string
	Open  string
	Close string
}

// Row builds a PriceRow from a date and two prices.
func Row(date string, open, close float64) PriceRow {
	return PriceRow{
		Date:  date,
		Open:  fmt.Sprintf("%.2f", open),
		Close: fmt.Sprintf("%.2f", close),
	}
}

// PriceCSV renders rows as a Date,Open,Close CSV document.
func PriceCSV(rows []PriceRow) string {
	var b strings.Builder
	b.WriteString("Date,Open,Close\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,%s\n", r.Date, r.Open, r.Close)
	}
	return b.String()
}

// WritePriceCSV writes rows to dir/name and returns the full path.
func WritePriceCSV(t *testing.T, dir, name string, rows []PriceRow) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(PriceCSV(rows)), 0644); err != nil {
		t.Fatalf("write price fixture: %v", err)
	}
	return path
}

// DailyRows generates one row per calendar day from start for n days, with
// weekend days skipped. The opening price is fixed at 100 and the close
// follows closeFor, which receives the row's date.
func DailyRows(start time.Time, n int, closeFor func(time.Time) float64) []PriceRow {
	rows := make([]PriceRow, 0, n)
	for d := start; len(rows) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		rows = append(rows, Row(d.Format("1/2/2006"), 100, closeFor(d)))
	}
	return rows
}

// WeekdayPattern returns a close function that makes Mondays lose
// mondayDrop percent and leaves every other day flat plus a small
// deterministic wiggle.
func WeekdayPattern(mondayDrop float64) func(time.Time) float64 {
	return func(d time.Time) float64 {
		wiggle := float64(d.YearDay()%7-3) * 0.1
		if d.Weekday() == time.Monday {
			return 100 - mondayDrop + wiggle
		}
		return 100 + wiggle
	}
}
