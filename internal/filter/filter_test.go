package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kscompare/internal/returns"
)

func sampleObservations() []returns.Observation {
	return []returns.Observation{
		{FY: 2019, Day: "Friday", Return: 0.4},
		{FY: 2020, Day: "Monday", Return: -1.2},
		{FY: 2020, Day: "Tuesday", Return: 0.7},
		{FY: 2021, Day: "Monday", Return: 2.5},
		{FY: 2021, Day: "Wednesday", Return: -0.1},
		{FY: 2022, Day: "Monday", Return: 0},
	}
}

func TestApply(t *testing.T) {
	obs := sampleObservations()

	tests := []struct {
		name  string
		conds []Condition
		want  []int // indexes into obs
	}{
		{
			name:  "no conditions keeps everything",
			conds: nil,
			want:  []int{0, 1, 2, 3, 4, 5},
		},
		{
			name:  "inclusive FY range",
			conds: []Condition{Range(PropertyFY, 2020, 2021)},
			want:  []int{1, 2, 3, 4},
		},
		{
			name:  "day set",
			conds: []Condition{Set(PropertyDay, "Monday")},
			want:  []int{1, 3, 5},
		},
		{
			name:  "range and set combined",
			conds: []Condition{Range(PropertyFY, 2020, 2021), Set(PropertyDay, "Monday")},
			want:  []int{1, 3},
		},
		{
			name:  "FY set",
			conds: []Condition{Years(PropertyFY, 2019, 2022)},
			want:  []int{0, 5},
		},
		{
			name:  "return range",
			conds: []Condition{Range(PropertyReturn, 0, 1)},
			want:  []int{0, 2, 5},
		},
		{
			name:  "day match is case sensitive",
			conds: []Condition{Set(PropertyDay, "monday")},
			want:  []int{},
		},
		{
			name:  "disjoint conditions",
			conds: []Condition{Range(PropertyFY, 2019, 2019), Set(PropertyDay, "Monday")},
			want:  []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(obs, tt.conds)
			require.NoError(t, err)

			want := make([]returns.Observation, 0, len(tt.want))
			for _, i := range tt.want {
				want = append(want, obs[i])
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestApply_SingleYear(t *testing.T) {
	obs := []returns.Observation{
		{FY: 2020, Day: "Monday"},
		{FY: 2021, Day: "Tuesday"},
	}

	got, err := Apply(obs, []Condition{Range(PropertyFY, 2020, 2020)})
	require.NoError(t, err)
	assert.Equal(t, obs[:1], got)
}

func TestApply_Idempotent(t *testing.T) {
	obs := sampleObservations()
	conds := []Condition{Range(PropertyFY, 2020, 2022), Set(PropertyDay, "Monday", "Tuesday")}

	once, err := Apply(obs, conds)
	require.NoError(t, err)
	twice, err := Apply(once, conds)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApply_DoesNotMutate(t *testing.T) {
	obs := sampleObservations()
	original := sampleObservations()

	got, err := Apply(obs, []Condition{Set(PropertyDay, "Friday")})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got[0].Day = "changed"
	assert.Equal(t, original, obs)
}

func TestApply_InvalidConditions(t *testing.T) {
	tests := []struct {
		name    string
		cond    Condition
		wantErr error
	}{
		{"unknown property", Range("Volume", 0, 1), ErrUnknownProperty},
		{"range on text", Range(PropertyDay, 0, 1), ErrKindMismatch},
		{"reversed range", Range(PropertyFY, 2021, 2020), ErrInvalidRange},
		{"NaN bound", Range(PropertyReturn, math.NaN(), 1), ErrInvalidRange},
		{"empty set", Set(PropertyDay), ErrEmptySet},
		{"unknown kind", Condition{Property: PropertyFY, Kind: Kind(7)}, ErrKindMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(sampleObservations(), []Condition{Set(PropertyDay, "Monday"), tt.cond})
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "condition 1")
		})
	}
}

func TestMatches_UnknownPropertyNeverMatches(t *testing.T) {
	o := returns.Observation{FY: 2020, Day: "Monday"}
	assert.False(t, Matches(o, []Condition{Set("Volume", "1")}))
	assert.True(t, Matches(o, nil))
}

func TestFlagDays(t *testing.T) {
	obs := sampleObservations()

	flags := FlagDays(obs, []string{"monday", " FRIDAY "})
	assert.Equal(t, []bool{true, true, false, true, false, true}, flags)
	assert.Equal(t, 4, CountFlags(flags))

	assert.Equal(t, make([]bool, len(obs)), FlagDays(obs, nil))
	assert.Empty(t, FlagDays(nil, []string{"Monday"}))
}

func TestConditionString(t *testing.T) {
	assert.Equal(t, "FY in [2015, 2020]", Range(PropertyFY, 2015, 2020).String())
	assert.Equal(t, "Day in [Monday Friday]", Set(PropertyDay, "Monday", "Friday").String())
	assert.Equal(t, "set", KindSet.String())
}
