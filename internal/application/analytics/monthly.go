package analytics

import (
	"context"
	"sort"
	"strconv"
	"time"

	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/numeric"
)

const (
	minYear = 1970
	maxYear = 9999
)

// TypeMonth is one waste type's activity inside a month.
type TypeMonth struct {
	WasteType     domain.WasteType `json:"wasteType"`
	TotalQuantity float64          `json:"totalQuantity"`
	TotalRevenue  float64          `json:"totalRevenue"`
	AvgPrice      float64          `json:"avgPrice"`
	Count         int              `json:"count"`
}

type MonthBucket struct {
	Month         int         `json:"month"`
	WasteTypes    []TypeMonth `json:"wasteTypes"`
	TotalQuantity float64     `json:"totalQuantity"`
	TotalRevenue  float64     `json:"totalRevenue"`
}

type monthType struct {
	month     int
	wasteType domain.WasteType
}

// MonthlyAnalytics returns exactly twelve buckets for year, January first.
// Year 0 means the current UTC year. Months without listings are zero-valued.
func (s *Service) MonthlyAnalytics(ctx context.Context, year int) ([]MonthBucket, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < minYear || year > maxYear {
		return nil, s.reject("monthly", apperr.InvalidQuery("year must be between %d and %d", minYear, maxYear))
	}
	return run(ctx, s, "monthly", strconv.Itoa(year), func(ctx context.Context) ([]MonthBucket, error) {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		before := from.AddDate(1, 0, 0)
		ls, err := s.load(ctx, "monthly", listings.Query{CreatedFrom: &from, CreatedBefore: &before})
		if err != nil {
			return nil, err
		}
		return monthlyBuckets(ls), nil
	})
}

func monthlyBuckets(ls []domain.Listing) []MonthBucket {
	// group fine: (month, type)
	_, fine := groupBy(ls, func(l domain.Listing) monthType {
		return monthType{month: int(l.CreatedAt.UTC().Month()), wasteType: l.WasteType.Canonical()}
	})
	rows := make([]TypeMonth, 0, len(fine))
	months := make([]int, 0, len(fine))
	for k, g := range fine {
		rows = append(rows, TypeMonth{
			WasteType:     k.wasteType,
			TotalQuantity: sumBy(g, quantity),
			TotalRevenue:  sumBy(g, revenue),
			AvgPrice:      numeric.Mean(sumBy(g, price), len(g)),
			Count:         len(g),
		})
		months = append(months, k.month)
	}

	// group coarse: month
	byMonth := map[int]MonthBucket{}
	for i, r := range rows {
		b := byMonth[months[i]]
		b.Month = months[i]
		b.WasteTypes = append(b.WasteTypes, r)
		byMonth[months[i]] = b
	}
	for m, b := range byMonth {
		sort.Slice(b.WasteTypes, func(i, j int) bool { return b.WasteTypes[i].WasteType < b.WasteTypes[j].WasteType })
		b.TotalQuantity = sumBy(b.WasteTypes, func(r TypeMonth) float64 { return r.TotalQuantity })
		b.TotalRevenue = sumBy(b.WasteTypes, func(r TypeMonth) float64 { return r.TotalRevenue })
		byMonth[m] = b
	}

	return fillMonths(byMonth, func(m int) MonthBucket {
		return MonthBucket{Month: m, WasteTypes: []TypeMonth{}}
	})
}
