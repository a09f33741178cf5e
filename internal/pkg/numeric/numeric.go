package numeric

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Round2 rounds v half away from zero to two decimals. NaN and infinities become 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Ratio returns num/den, or 0 when den is zero.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percentage returns num/den*100 rounded to two decimals, or 0 when den is zero.
func Percentage(num, den float64) float64 {
	return Round2(Ratio(num, den) * 100)
}

// Mean returns sum/count, or 0 for an empty set.
func Mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Shares splits 100 percent across parts in proportion to their size, in
// hundredths, using largest-remainder rounding: every share is floored to a
// hundredth and the leftover hundredths go to the largest remainders, ties
// broken by tieLess. Shares of positive parts always total exactly 100.
// Negative, NaN and infinite parts count as zero; all-zero parts yield zeros.
func Shares(parts []float64, tieLess func(i, j int) bool) []float64 {
	out := make([]float64, len(parts))
	clean := make([]decimal.Decimal, len(parts))
	grand := decimal.Zero
	for i, p := range parts {
		if p > 0 && !math.IsInf(p, 0) {
			clean[i] = decimal.NewFromFloat(p)
			grand = grand.Add(clean[i])
		}
	}
	if !grand.IsPositive() {
		return out
	}

	const total = 10000
	hundred := decimal.NewFromInt(total)
	cents := make([]int64, len(parts))
	rem := make([]decimal.Decimal, len(parts))
	var used int64
	for i, v := range clean {
		exact := v.Mul(hundred).Div(grand)
		floor := exact.Floor()
		cents[i] = floor.IntPart()
		rem[i] = exact.Sub(floor)
		used += cents[i]
	}

	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if c := rem[i].Cmp(rem[j]); c != 0 {
			return c > 0
		}
		return tieLess(i, j)
	})
	for k := 0; used < total && k < len(order); k++ {
		if clean[order[k]].IsPositive() {
			cents[order[k]]++
			used++
		}
	}

	for i, c := range cents {
		out[i] = float64(c) / 100
	}
	return out
}
