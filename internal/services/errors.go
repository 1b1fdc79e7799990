package services

import (
	"errors"

	"kscompare/internal/returns"
)

// Comparison service errors
var (
	// ErrDatasetNotFound indicates a dataset name with no file behind it.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrUnsupportedFormat indicates a dataset file the loaders cannot read.
	ErrUnsupportedFormat = returns.ErrUnsupportedFormat

	// ErrDatasetInvalid indicates a dataset that could not be prepared, such
	// as a missing column or a malformed row under the strict policy.
	ErrDatasetInvalid = errors.New("dataset could not be prepared")

	// ErrEmptySubset indicates a side of a comparison with no observations.
	ErrEmptySubset = errors.New("empty subset")

	// ErrInvalidInput indicates a request that failed validation, such as
	// unparseable year text or an unknown weekday.
	ErrInvalidInput = errors.New("invalid input")
)
