package filter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedYears = errors.New("malformed year range")
	ErrUnknownDay     = errors.New("unknown weekday")
)

// ParseYears turns text such as "2015-2018, 2020" into a single FY
// condition matching the union of its tokens. Each comma separated token is
// a year or an inclusive low-high range. Text holding one range alone stays
// a range condition; anything else becomes one set of years. Empty text
// yields no conditions.
func ParseYears(text string) ([]Condition, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var (
		years  = make(map[int]bool)
		tokens int
		lo, hi int
	)
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("%w: empty token in %q", ErrMalformedYears, text)
		}
		tokens++

		var err error
		low, high, isRange := strings.Cut(token, "-")
		if !isRange {
			if lo, err = parseYear(token); err != nil {
				return nil, err
			}
			hi = lo
		} else {
			if lo, err = parseYear(strings.TrimSpace(low)); err != nil {
				return nil, err
			}
			if hi, err = parseYear(strings.TrimSpace(high)); err != nil {
				return nil, err
			}
			if lo > hi {
				return nil, fmt.Errorf("%w: %q is reversed", ErrMalformedYears, token)
			}
		}
		for y := lo; y <= hi; y++ {
			years[y] = true
		}
	}

	if tokens == 1 && lo != hi {
		return []Condition{Range(PropertyFY, float64(lo), float64(hi))}, nil
	}

	set := make([]int, 0, len(years))
	for y := range years {
		set = append(set, y)
	}
	slices.Sort(set)
	return []Condition{Years(PropertyFY, set...)}, nil
}

func parseYear(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("%w: %q is not a four digit year", ErrMalformedYears, s)
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0, fmt.Errorf("%w: %q is not a four digit year", ErrMalformedYears, s)
	}
	return y, nil
}

// ParseDays canonicalises full weekday names given in any case, so
// "monday" and "MONDAY" both become "Monday". Duplicates are dropped and
// the input order is kept.
func ParseDays(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		day, ok := canonicalDay(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDay, name)
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	return out, nil
}

func canonicalDay(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) {
			return d.String(), true
		}
	}
	return "", false
}

// Selection builds the conditions for a year range text plus a list of
// weekday names. Either part may be empty.
func Selection(yearsText string, days []string) ([]Condition, error) {
	conds, err := ParseYears(yearsText)
	if err != nil {
		return nil, err
	}

	if len(days) > 0 {
		canonical, err := ParseDays(days)
		if err != nil {
			return nil, err
		}
		conds = append(conds, Set(PropertyDay, canonical...))
	}
	return conds, nil
}
