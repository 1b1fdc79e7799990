package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Property names an observation attribute a condition can test.
type Property string

const (
	PropertyFY     Property = "FY"
	PropertyDay    Property = "Day"
	PropertyReturn Property = "Return"
)

// Kind selects how a condition tests its property.
type Kind int

const (
	KindRange Kind = iota
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindSet:
		return "set"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrKindMismatch    = errors.New("condition kind not supported by property")
	ErrInvalidRange    = errors.New("invalid range")
	ErrEmptySet        = errors.New("empty value set")
)

// numeric properties accept both kinds, text properties only sets
var properties = map[Property]bool{
	PropertyFY:     true,
	PropertyDay:    false,
	PropertyReturn: true,
}

// Condition restricts one property either to the closed interval [Low, High]
// or to membership in Values.
type Condition struct {
	Property Property `json:"property"`
	Kind     Kind     `json:"kind"`
	Low      float64  `json:"low,omitempty"`
	High     float64  `json:"high,omitempty"`
	Values   []string `json:"values,omitempty"`
}

// Range builds an inclusive range condition.
func Range(p Property, low, high float64) Condition {
	return Condition{Property: p, Kind: KindRange, Low: low, High: high}
}

// Set builds a membership condition.
func Set(p Property, values ...string) Condition {
	return Condition{Property: p, Kind: KindSet, Values: values}
}

// Years builds a membership condition from integer years.
func Years(p Property, years ...int) Condition {
	values := make([]string, len(years))
	for i, y := range years {
		values[i] = strconv.Itoa(y)
	}
	return Set(p, values...)
}

func (c Condition) String() string {
	if c.Kind == KindRange {
		return fmt.Sprintf("%s in [%g, %g]", c.Property, c.Low, c.High)
	}
	return fmt.Sprintf("%s in %v", c.Property, c.Values)
}

func (c Condition) validate() error {
	numeric, ok := properties[c.Property]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, c.Property)
	}

	switch c.Kind {
	case KindRange:
		if !numeric {
			return fmt.Errorf("%w: %s on %s", ErrKindMismatch, c.Kind, c.Property)
		}
		if math.IsNaN(c.Low) || math.IsNaN(c.High) || c.Low > c.High {
			return fmt.Errorf("%w: %s", ErrInvalidRange, c)
		}
	case KindSet:
		if len(c.Values) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptySet, c.Property)
		}
	default:
		return fmt.Errorf("%w: %s on %s", ErrKindMismatch, c.Kind, c.Property)
	}
	return nil
}

// Validate checks every condition and returns the first problem found.
func Validate(conds []Condition) error {
	for i, c := range conds {
		if err := c.validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}
