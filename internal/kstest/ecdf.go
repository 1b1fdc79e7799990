package kstest

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmptySample indicates a sample with no values.
	ErrEmptySample = errors.New("empty sample")

	// ErrUnsortedSupport indicates a support sequence that is not ascending.
	ErrUnsortedSupport = errors.New("support is not sorted ascending")

	// ErrNaNValue indicates a NaN in a sample or support.
	ErrNaNValue = errors.New("NaN value")

	// ErrLengthMismatch indicates two CDFs evaluated on different supports.
	ErrLengthMismatch = errors.New("CDF length mismatch")
)

// CombinedSupport returns the sorted pooled values of a and b, duplicates
// included. Neither input is modified.
func CombinedSupport(a, b []float64) []float64 {
	support := make([]float64, 0, len(a)+len(b))
	support = append(support, a...)
	support = append(support, b...)
	sort.Float64s(support)
	return support
}

// ECDF evaluates the empirical CDF of sample at every point of support.
//
// support must be sorted ascending. The returned slice has the same length as
// support; element i is the fraction of sample values <= support[i]. The
// sample is sorted on a copy and counted with a pointer that only moves
// forward, so the result is non-decreasing.
func ECDF(sample, support []float64) ([]float64, error) {
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	if err := checkSupport(support); err != nil {
		return nil, err
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	// sort.Float64s orders NaN first
	if math.IsNaN(sorted[0]) {
		return nil, fmt.Errorf("sample: %w", ErrNaNValue)
	}

	n := float64(len(sorted))
	cdf := make([]float64, len(support))
	count := 0
	for i, v := range support {
		for count < len(sorted) && sorted[count] <= v {
			count++
		}
		cdf[i] = float64(count) / n
	}

	return cdf, nil
}

func checkSupport(support []float64) error {
	for i, v := range support {
		if math.IsNaN(v) {
			return fmt.Errorf("support[%d]: %w", i, ErrNaNValue)
		}
		if i > 0 && v < support[i-1] {
			return fmt.Errorf("support[%d]=%g after %g: %w", i, v, support[i-1], ErrUnsortedSupport)
		}
	}
	return nil
}
