package returns

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the month/day/year layout of the Date column. Leading zeros
// are optional.
const DateLayout = "1/2/2006"

var (
	// ErrInvalidDate indicates a date that does not match DateLayout.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPrice indicates an opening or closing price that is not a decimal number.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrZeroOpen indicates an opening price of zero, for which no return is defined.
	ErrZeroOpen = errors.New("zero opening price")

	// ErrEmptySample indicates a summary requested over no values.
	ErrEmptySample = errors.New("empty sample")
)

// RawRecord is one input row in source form.
type RawRecord struct {
	// Line is the 1-based row number in the source, header included.
	Line  int
	Date  string
	Open  string
	Close string
}

// Observation is a prepared daily record.
type Observation struct {
	Date  time.Time `json:"date"`
	Day   string    `json:"day"`
	FY    int       `json:"fy"`
	Open  float64   `json:"open"`
	Close float64   `json:"close"`
	// Return is (Open - Close) / Open * 100.
	Return float64 `json:"return"`
}

// RowError describes why a raw record could not be prepared.
type RowError struct {
	Line  int    `json:"line"`
	Field string `json:"field"`
	Value string `json:"value"`
	Err   error  `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reason returns the underlying cause as text, for reports.
func (e *RowError) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// MarshalJSON adds the cause as "reason".
func (e RowError) MarshalJSON() ([]byte, error) {
	type plain RowError
	return json.Marshal(struct {
		plain
		Reason string `json:"reason,omitempty"`
	}{plain(e), e.Reason()})
}

// Prepare derives an Observation from a raw record. A zero opening price is
// rejected with ErrZeroOpen rather than producing an infinite return.
func Prepare(raw RawRecord) (Observation, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(raw.Date))
	if err != nil {
		return Observation{}, &RowError{Line: raw.Line, Field: "date", Value: raw.Date, Err: ErrInvalidDate}
	}

	open, err := parsePrice(raw.Open, "open", raw.Line)
	if err != nil {
		return Observation{}, err
	}
	closePrice, err := parsePrice(raw.Close, "close", raw.Line)
	if err != nil {
		return Observation{}, err
	}

	if open == 0 {
		return Observation{}, &RowError{Line: raw.Line, Field: "open", Value: raw.Open, Err: ErrZeroOpen}
	}

	return Observation{
		Date:   date,
		Day:    date.Weekday().String(),
		FY:     date.Year(),
		Open:   open,
		Close:  closePrice,
		Return: (open - closePrice) / open * 100,
	}, nil
}

// Returns extracts the return sample of a set of observations.
func Returns(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Return
	}
	return out
}

// parsePrice accepts surrounding whitespace and thousands separators.
func parsePrice(str, field string, line int) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(str), ",", "")
	if cleaned == "" {
		return 0, &RowError{Line: line, Field: field, Value: str, Err: ErrInvalidPrice}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &RowError{Line: line, Field: field, Value: str, Err: ErrInvalidPrice}
	}
	return value, nil
}
