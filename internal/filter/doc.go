// Package filter selects return observations by FY, weekday or return value.
//
// A slice of Conditions is combined with logical AND. Range conditions are
// inclusive on both ends and apply to numeric properties; Set conditions test
// exact, case-sensitive membership of the property's text form, so callers
// pass weekday names through ParseDays first.
//
//	conds, err := filter.Selection("2015-2020", []string{"monday"})
//	subset, err := filter.Apply(batch.Observations, conds)
package filter
