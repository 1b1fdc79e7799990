package returns

import (
	"errors"
	"fmt"
	"strings"
)

// RowPolicy decides what PrepareAll does with a record that fails Prepare.
type RowPolicy int

const (
	// PolicySkip drops malformed records and reports them in Batch.Rejected.
	PolicySkip RowPolicy = iota
	// PolicyStrict fails the whole batch on the first malformed record.
	PolicyStrict
)

func (p RowPolicy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("RowPolicy(%d)", int(p))
	}
}

// ParsePolicy parses "skip" or "strict". An empty string means PolicySkip.
func ParsePolicy(s string) (RowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return PolicySkip, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicySkip, fmt.Errorf("unknown row policy %q (want skip or strict)", s)
	}
}

// Batch is the outcome of preparing a sequence of raw records.
type Batch struct {
	Observations []Observation
	Rejected     []RowError
}

// PrepareAll prepares every record in order. raws is not modified.
func PrepareAll(raws []RawRecord, policy RowPolicy) (*Batch, error) {
	batch := &Batch{
		Observations: make([]Observation, 0, len(raws)),
	}

	for _, raw := range raws {
		obs, err := Prepare(raw)
		if err == nil {
			batch.Observations = append(batch.Observations, obs)
			continue
		}

		if policy == PolicyStrict {
			return nil, fmt.Errorf("prepare records: %w", err)
		}

		var rowErr *RowError
		if !errors.As(err, &rowErr) {
			return nil, fmt.Errorf("prepare records: %w", err)
		}
		batch.Rejected = append(batch.Rejected, *rowErr)
	}

	return batch, nil
}

// Years returns the lowest and highest fiscal year in the batch. ok is false
// when the batch is empty.
func (b *Batch) Years() (low, high int, ok bool) {
	if len(b.Observations) == 0 {
		return 0, 0, false
	}
	low, high = b.Observations[0].FY, b.Observations[0].FY
	for _, o := range b.Observations[1:] {
		if o.FY < low {
			low = o.FY
		}
		if o.FY > high {
			high = o.FY
		}
	}
	return low, high, true
}
