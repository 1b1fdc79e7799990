package kstest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedSupport(t *testing.T) {
	a := []float64{3, 1, 2}
	b := []float64{2, 5}

	support := CombinedSupport(a, b)

	assert.Equal(t, []float64{1, 2, 2, 3, 5}, support)
	assert.Equal(t, []float64{3, 1, 2}, a, "input must not be reordered")
	assert.Equal(t, []float64{2, 5}, b)
}

func TestECDF(t *testing.T) {
	tests := []struct {
		name    string
		sample  []float64
		support []float64
		want    []float64
		wantErr error
	}{
		{
			name:    "identical support",
			sample:  []float64{1, 2, 3, 4},
			support: []float64{1, 2, 3, 4},
			want:    []float64{0.25, 0.5, 0.75, 1},
		},
		{
			name:    "unsorted sample",
			sample:  []float64{4, 1, 3, 2},
			support: []float64{1, 2, 3, 4},
			want:    []float64{0.25, 0.5, 0.75, 1},
		},
		{
			name:    "ties counted together",
			sample:  []float64{1, 1, 2},
			support: []float64{0, 1, 1, 2, 3},
			want:    []float64{0, 2.0 / 3, 2.0 / 3, 1, 1},
		},
		{
			name:    "support max outside sample",
			sample:  []float64{10, 20},
			support: []float64{5, 10, 15},
			want:    []float64{0, 0.5, 0.5},
		},
		{
			name:    "empty sample",
			sample:  nil,
			support: []float64{1},
			wantErr: ErrEmptySample,
		},
		{
			name:    "unsorted support",
			sample:  []float64{1},
			support: []float64{2, 1},
			wantErr: ErrUnsortedSupport,
		},
		{
			name:    "NaN in sample",
			sample:  []float64{1, math.NaN()},
			support: []float64{1},
			wantErr: ErrNaNValue,
		},
		{
			name:    "NaN in support",
			sample:  []float64{1},
			support: []float64{math.NaN(), 1},
			wantErr: ErrNaNValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ECDF(tt.sample, tt.support)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, got, 1e-12)
		})
	}
}

func TestECDF_DoesNotMutateSample(t *testing.T) {
	sample := []float64{5, 3, 9, 1}
	_, err := ECDF(sample, CombinedSupport(sample, nil))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3, 9, 1}, sample)
}

func TestECDF_MonotonicAndEndsAtOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		a := randomSample(rng, 1+rng.Intn(40), 0, 1)
		b := randomSample(rng, 1+rng.Intn(40), 0.5, 2)
		support := CombinedSupport(a, b)

		cdf, err := ECDF(a, support)
		require.NoError(t, err)
		require.Len(t, cdf, len(support))

		for i := 1; i < len(cdf); i++ {
			assert.GreaterOrEqual(t, cdf[i], cdf[i-1])
		}
		for _, v := range cdf {
			assert.True(t, v >= 0 && v <= 1)
		}

		// last value is 1 whenever the support maximum comes from a
		if maxOf(a) == support[len(support)-1] {
			assert.Equal(t, 1.0, cdf[len(cdf)-1])
		}
	}
}

func TestStatistic(t *testing.T) {
	ks, err := Statistic([]float64{0.2, 0.5, 1}, []float64{0.1, 0.9, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, ks, 1e-12)

	_, err = Statistic([]float64{0.5, 1}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Statistic(nil, nil)
	assert.ErrorIs(t, err, ErrEmptySample)
}

func TestLambda(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2.5), Lambda(5, 5), 1e-12)
	assert.InDelta(t, math.Sqrt(100.0*25/125), Lambda(100, 25), 1e-12)
	assert.Equal(t, 0.0, Lambda(0, 5))
}

func TestPValue(t *testing.T) {
	// zero distance gives the formula's value at Φ(0) = 0.5
	assert.Equal(t, 1.0, PValue(0, 10, 10))

	// hand computed: ks=0.5, n1=n2=8 -> λ=2, Φ(1)=0.8413447
	assert.InDelta(t, 2*(1-0.8413447), PValue(0.5, 8, 8), 1e-6)

	// strictly decreasing in ks
	prev := PValue(0, 30, 30)
	for ks := 0.05; ks <= 1; ks += 0.05 {
		cur := PValue(ks, 30, 30)
		assert.Less(t, cur, prev)
		prev = cur
	}
}

func TestTest_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		data1  []float64
		data2  []float64
		wantKS float64
		wantP  float64
		deltaP float64
	}{
		{
			name:   "identical samples",
			data1:  []float64{1, 2, 3, 4, 5},
			data2:  []float64{1, 2, 3, 4, 5},
			wantKS: 0,
			wantP:  1,
			deltaP: 1e-12,
		},
		{
			name:   "constant samples far apart",
			data1:  []float64{0, 0, 0},
			data2:  []float64{10, 10, 10},
			wantKS: 1,
			wantP:  2 * (1 - NormalCDF(math.Sqrt(1.5))),
			deltaP: 1e-12,
		},
		{
			name:   "disjoint supports",
			data1:  negativeRun(200),
			data2:  positiveRun(200, 100),
			wantKS: 1,
			wantP:  0,
			deltaP: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Test(tt.data1, tt.data2)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantKS, result.KSStatistic, 1e-12)
			assert.InDelta(t, tt.wantP, result.PValue, tt.deltaP)
			assert.Equal(t, len(tt.data1), result.N1)
			assert.Equal(t, len(tt.data2), result.N2)
			assert.Len(t, result.CDF1, len(tt.data1)+len(tt.data2))
			assert.Len(t, result.CDF2, len(result.Support))
		})
	}
}

func TestTest_SameDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	high := 0
	const trials = 40
	for i := 0; i < trials; i++ {
		a := randomSample(rng, 300, 0, 1)
		b := randomSample(rng, 300, 0, 1)
		result, err := Test(a, b)
		require.NoError(t, err)
		assert.Less(t, result.KSStatistic, 0.2)
		if result.PValue > 0.05 {
			high++
		}
	}
	assert.GreaterOrEqual(t, high, trials*8/10, "draws from one distribution should rarely look different")
}

func TestTest_ShiftedDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	a := randomSample(rng, 500, 0, 1)
	b := randomSample(rng, 500, 1, 1)

	result, err := Test(a, b)
	require.NoError(t, err)
	assert.Greater(t, result.KSStatistic, 0.25)
	assert.True(t, result.Significant(0.01))
}

func TestTest_Errors(t *testing.T) {
	_, err := Test(nil, []float64{1})
	assert.ErrorIs(t, err, ErrEmptySample)

	_, err = Test([]float64{1}, []float64{})
	assert.ErrorIs(t, err, ErrEmptySample)

	_, err = Test([]float64{1, math.NaN()}, []float64{2})
	assert.ErrorIs(t, err, ErrNaNValue)
}

func TestTest_DoesNotMutateInputs(t *testing.T) {
	a := []float64{3, 1, 2}
	b := []float64{9, 7, 8}
	_, err := Test(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, a)
	assert.Equal(t, []float64{9, 7, 8}, b)
}

func randomSample(rng *rand.Rand, n int, mean, stddev float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + stddev*rng.NormFloat64()
	}
	return out
}

func negativeRun(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = -1 - float64(i)
	}
	return out
}

func positiveRun(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + 1 + float64(i)
	}
	return out
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
