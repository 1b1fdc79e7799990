package returns

import (
	"fmt"
	"math"
	"sort"
)

// Summary holds descriptive statistics of a return sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Bin is one histogram bucket covering [Low, High).
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Describe summarizes a sample. StdDev is the sample standard deviation and
// is zero for a single value.
func Describe(sample []float64) (Summary, error) {
	if len(sample) == 0 {
		return Summary{}, ErrEmptySample
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	mean := sum / float64(n)

	variance := 0.0
	if n > 1 {
		for _, v := range sorted {
			d := v - mean
			variance += d * d
		}
		variance /= float64(n - 1)
	}

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Count:  n,
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: median,
	}, nil
}

// SturgesBins returns ceil(log2 n) + 1, the default bin count for n values.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram counts sample values into equal-width bins over [lo, hi]. The
// last bin is closed so hi itself is counted; values outside the range are
// ignored. bins <= 0 selects SturgesBins(len(sample)). Passing the same lo and
// hi for two samples makes their histograms directly comparable.
func Histogram(sample []float64, bins int, lo, hi float64) ([]Bin, error) {
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return nil, fmt.Errorf("invalid histogram range [%g, %g]", lo, hi)
	}
	if bins <= 0 {
		bins = SturgesBins(len(sample))
	}
	if lo == hi {
		// degenerate range collapses to one bin
		bins = 1
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, v := range sample {
		if v < lo || v > hi || math.IsNaN(v) {
			continue
		}
		idx := bins - 1
		if width > 0 {
			idx = int((v - lo) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		out[idx].Count++
	}

	return out, nil
}
