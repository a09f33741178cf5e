package analytics

import (
	"agrowaste-backend/internal/domain"
)

// The aggregations below are built from three steps: group the snapshot by a
// key, reduce each group, then fill or order the reduced rows.

// groupBy partitions items by key. Keys are returned in first-seen order.
func groupBy[T any, K comparable](items []T, key func(T) K) ([]K, map[K][]T) {
	var keys []K
	groups := map[K][]T{}
	for _, it := range items {
		k := key(it)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], it)
	}
	return keys, groups
}

func sumBy[T any](items []T, f func(T) float64) float64 {
	total := 0.0
	for _, it := range items {
		total += f(it)
	}
	return total
}

// fillMonths returns one row per calendar month 1..12, taking rows from
// byMonth and building the missing ones with empty.
func fillMonths[T any](byMonth map[int]T, empty func(month int) T) []T {
	out := make([]T, 0, 12)
	for m := 1; m <= 12; m++ {
		if row, ok := byMonth[m]; ok {
			out = append(out, row)
			continue
		}
		out = append(out, empty(m))
	}
	return out
}

// normalize converts every listing to kilograms.
func normalize(ls []domain.Listing) []domain.Listing {
	out := make([]domain.Listing, len(ls))
	for i, l := range ls {
		out[i] = l.Normalized()
	}
	return out
}

func quantity(l domain.Listing) float64 { return l.Quantity }
func price(l domain.Listing) float64    { return l.Price }
func revenue(l domain.Listing) float64  { return l.Revenue() }
