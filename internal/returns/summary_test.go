package returns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		want   Summary
	}{
		{
			name:   "odd count",
			sample: []float64{3, 1, 2},
			want:   Summary{Count: 3, Mean: 2, StdDev: 1, Min: 1, Max: 3, Median: 2},
		},
		{
			name:   "even count",
			sample: []float64{4, 1, 3, 2},
			want:   Summary{Count: 4, Mean: 2.5, StdDev: math.Sqrt(5.0 / 3), Min: 1, Max: 4, Median: 2.5},
		},
		{
			name:   "single value",
			sample: []float64{-0.7},
			want:   Summary{Count: 1, Mean: -0.7, StdDev: 0, Min: -0.7, Max: -0.7, Median: -0.7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Describe(tt.sample)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-12)
			assert.InDelta(t, tt.want.StdDev, got.StdDev, 1e-12)
			assert.Equal(t, tt.want.Min, got.Min)
			assert.Equal(t, tt.want.Max, got.Max)
			assert.InDelta(t, tt.want.Median, got.Median, 1e-12)
		})
	}

	_, err := Describe(nil)
	assert.ErrorIs(t, err, ErrEmptySample)
}

func TestDescribe_DoesNotMutate(t *testing.T) {
	sample := []float64{3, 1, 2}
	_, err := Describe(sample)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, sample)
}

func TestSturgesBins(t *testing.T) {
	assert.Equal(t, 1, SturgesBins(0))
	assert.Equal(t, 1, SturgesBins(1))
	assert.Equal(t, 2, SturgesBins(2))
	assert.Equal(t, 5, SturgesBins(10))
	assert.Equal(t, 11, SturgesBins(1000))
}

func TestHistogram(t *testing.T) {
	sample := []float64{0, 0.5, 1, 1.5, 2, 2, 4, -1, 5}

	bins, err := Histogram(sample, 4, 0, 4)
	require.NoError(t, err)
	require.Len(t, bins, 4)

	assert.Equal(t, Bin{Low: 0, High: 1, Count: 2}, bins[0])
	assert.Equal(t, Bin{Low: 1, High: 2, Count: 2}, bins[1])
	assert.Equal(t, Bin{Low: 2, High: 3, Count: 2}, bins[2])
	assert.Equal(t, Bin{Low: 3, High: 4, Count: 1}, bins[3], "upper edge is counted in the last bin")

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 7, total, "values outside the range are ignored")
}

func TestHistogram_DefaultBins(t *testing.T) {
	sample := make([]float64, 100)
	for i := range sample {
		sample[i] = float64(i)
	}

	bins, err := Histogram(sample, 0, 0, 99)
	require.NoError(t, err)
	assert.Len(t, bins, SturgesBins(100))
}

func TestHistogram_Degenerate(t *testing.T) {
	bins, err := Histogram([]float64{2, 2, 2}, 5, 2, 2)
	require.NoError(t, err)
	require.Len(t, bins, 1)
	assert.Equal(t, 3, bins[0].Count)

	_, err = Histogram(nil, 5, 0, 1)
	assert.ErrorIs(t, err, ErrEmptySample)

	_, err = Histogram([]float64{1}, 5, 2, 1)
	assert.Error(t, err)
}
