package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 66.67, Round2(200.0/3))
	assert.Equal(t, 2.5, Round2(2.5))
	assert.Equal(t, 0.0, Round2(math.NaN()))
	assert.Equal(t, 0.0, Round2(math.Inf(1)))
}

func TestPercentage_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 25.0, Percentage(1, 4))
}

func TestMean_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(0, 0))
	assert.Equal(t, 2.0, Mean(6, 3))
}

func sumCents(shares []float64) int64 {
	var n int64
	for _, s := range shares {
		n += int64(math.Round(s * 100))
	}
	return n
}

func TestShares_TotalExactlyHundred(t *testing.T) {
	byIndex := func(i, j int) bool { return i < j }
	cases := map[string]struct {
		parts []float64
		want  []float64
	}{
		"uneven pair":   {[]float64{10001, 9999}, []float64{50.01, 49.99}},
		"three equal":   {[]float64{1, 1, 1}, []float64{33.34, 33.33, 33.33}},
		"even split":    {[]float64{60, 25, 15}, []float64{60, 25, 15}},
		"two thirds":    {[]float64{2, 1}, []float64{66.67, 33.33}},
		"seven equal":   {[]float64{1, 1, 1, 1, 1, 1, 1}, []float64{14.29, 14.29, 14.29, 14.29, 14.28, 14.28, 14.28}},
		"with zero":     {[]float64{0, 3, 0}, []float64{0, 100, 0}},
		"with negative": {[]float64{-5, 1, 1}, []float64{0, 50, 50}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Shares(tc.parts, byIndex)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, int64(10000), sumCents(got))
		})
	}
}

func TestShares_TieBreak(t *testing.T) {
	names := []string{"Raipur", "Durg", "Bhilai"}
	got := Shares([]float64{1, 1, 1}, func(i, j int) bool { return names[i] < names[j] })
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, got, "leftover hundredth goes to the first name")
}

func TestShares_AllZero(t *testing.T) {
	assert.Equal(t, []float64{0, 0}, Shares([]float64{0, 0}, func(i, j int) bool { return i < j }))
	assert.Empty(t, Shares(nil, func(i, j int) bool { return i < j }))
}
