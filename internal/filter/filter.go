package filter

import (
	"strconv"
	"strings"

	"kscompare/internal/returns"
)

// Matches reports whether o satisfies every condition. Evaluation stops at
// the first failing condition. Conditions are assumed valid; an unknown
// property never matches.
func Matches(o returns.Observation, conds []Condition) bool {
	for _, c := range conds {
		if !c.matches(o) {
			return false
		}
	}
	return true
}

func (c Condition) matches(o returns.Observation) bool {
	switch c.Kind {
	case KindRange:
		v, ok := numericValue(o, c.Property)
		return ok && v >= c.Low && v <= c.High
	case KindSet:
		v, ok := textValue(o, c.Property)
		if !ok {
			return false
		}
		for _, want := range c.Values {
			if v == want {
				return true
			}
		}
	}
	return false
}

func numericValue(o returns.Observation, p Property) (float64, bool) {
	switch p {
	case PropertyFY:
		return float64(o.FY), true
	case PropertyReturn:
		return o.Return, true
	}
	return 0, false
}

func textValue(o returns.Observation, p Property) (string, bool) {
	switch p {
	case PropertyFY:
		return strconv.Itoa(o.FY), true
	case PropertyDay:
		return o.Day, true
	case PropertyReturn:
		return strconv.FormatFloat(o.Return, 'g', -1, 64), true
	}
	return "", false
}

// Apply validates conds and returns the matching observations in their
// original order. The input slice is never modified. With no conditions the
// result is a copy of obs.
func Apply(obs []returns.Observation, conds []Condition) ([]returns.Observation, error) {
	if err := Validate(conds); err != nil {
		return nil, err
	}

	out := make([]returns.Observation, 0, len(obs))
	for _, o := range obs {
		if Matches(o, conds) {
			out = append(out, o)
		}
	}
	return out, nil
}

// FlagDays marks each observation whose weekday is in days, ignoring case.
func FlagDays(obs []returns.Observation, days []string) []bool {
	selected := make(map[string]struct{}, len(days))
	for _, d := range days {
		selected[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}

	flags := make([]bool, len(obs))
	for i, o := range obs {
		_, flags[i] = selected[strings.ToLower(o.Day)]
	}
	return flags
}

// CountFlags returns the number of set flags.
func CountFlags(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
