// Package api contains the request and response contracts of the kscompare
// HTTP API. Version v1 is the current stable API version.
package api

// CompareRequest asks for a subset of a dataset to be tested against its
// baseline.
type CompareRequest struct {
	Dataset string `json:"dataset" validate:"required,dataset"`
	// Years selects the subset by fiscal year, e.g. "2015-2018, 2020".
	Years string `json:"years,omitempty" validate:"omitempty,years"`
	// Days selects the subset by weekday name, in any case.
	Days []string `json:"days,omitempty" validate:"omitempty,max=7,dive,weekday"`
	// BaselineYears restricts the baseline; empty means the whole dataset.
	BaselineYears string  `json:"baseline_years,omitempty" validate:"omitempty,years"`
	Bins          int     `json:"bins,omitempty" validate:"omitempty,min=1,max=200"`
	Alpha         float64 `json:"alpha,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// WeekdayScanRequest asks for every weekday to be tested against the
// baseline selected by Years.
type WeekdayScanRequest struct {
	Dataset string  `json:"dataset" validate:"required,dataset"`
	Years   string  `json:"years,omitempty" validate:"omitempty,years"`
	Alpha   float64 `json:"alpha,omitempty" validate:"omitempty,gt=0,lt=1"`
}
