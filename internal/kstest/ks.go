package kstest

import (
	"fmt"
	"math"
)

// Result holds the outcome of a two-sample KS comparison.
type Result struct {
	// KSStatistic is the largest absolute distance between the two CDFs, in [0, 1].
	KSStatistic float64 `json:"ks_statistic"`

	// PValue is 2 * (1 - Φ(KSStatistic * Lambda)).
	PValue float64 `json:"p_value"`

	// Lambda is sqrt(N1*N2/(N1+N2)).
	Lambda float64 `json:"lambda"`

	// N1 is the size of the first sample.
	N1 int `json:"n1"`
	// N2 is the size of the second sample.
	N2 int `json:"n2"`

	// Support is the sorted combined sample both CDFs are evaluated on.
	Support []float64 `json:"-"`
	// CDF1 is the first sample's ECDF over Support.
	CDF1 []float64 `json:"-"`
	// CDF2 is the second sample's ECDF over Support.
	CDF2 []float64 `json:"-"`
}

// Significant reports whether the p-value falls below alpha.
func (r *Result) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// Statistic returns max |cdf1[i] - cdf2[i]|. Both CDFs must come from the
// same support; a length mismatch is rejected rather than truncated.
func Statistic(cdf1, cdf2 []float64) (float64, error) {
	if len(cdf1) != len(cdf2) {
		return 0, fmt.Errorf("%d vs %d: %w", len(cdf1), len(cdf2), ErrLengthMismatch)
	}
	if len(cdf1) == 0 {
		return 0, ErrEmptySample
	}

	maxDiff := 0.0
	for i := range cdf1 {
		if d := math.Abs(cdf1[i] - cdf2[i]); d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}

// Lambda returns the effective sample size scaling sqrt(n1*n2/(n1+n2)).
func Lambda(n1, n2 int) float64 {
	if n1 <= 0 || n2 <= 0 {
		return 0
	}
	a, b := float64(n1), float64(n2)
	return math.Sqrt(a * b / (a + b))
}

// PValue converts a KS statistic into the normal tail approximation
// 2 * (1 - Φ(ks * λ)).
func PValue(ks float64, n1, n2 int) float64 {
	return 2 * (1 - NormalCDF(ks*Lambda(n1, n2)))
}

// Test runs the two-sample KS comparison of data1 against data2. Neither
// input is modified.
func Test(data1, data2 []float64) (*Result, error) {
	if len(data1) == 0 {
		return nil, fmt.Errorf("first sample: %w", ErrEmptySample)
	}
	if len(data2) == 0 {
		return nil, fmt.Errorf("second sample: %w", ErrEmptySample)
	}

	support := CombinedSupport(data1, data2)

	cdf1, err := ECDF(data1, support)
	if err != nil {
		return nil, fmt.Errorf("first sample: %w", err)
	}
	cdf2, err := ECDF(data2, support)
	if err != nil {
		return nil, fmt.Errorf("second sample: %w", err)
	}

	ks, err := Statistic(cdf1, cdf2)
	if err != nil {
		return nil, err
	}

	n1, n2 := len(data1), len(data2)
	return &Result{
		KSStatistic: ks,
		PValue:      PValue(ks, n1, n2),
		Lambda:      Lambda(n1, n2),
		N1:          n1,
		N2:          n2,
		Support:     support,
		CDF1:        cdf1,
		CDF2:        cdf2,
	}, nil
}
