package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/numeric"

	"github.com/google/uuid"
)

const (
	DefaultLocationLimit = 10
	MaxLocationLimit     = 100
	unknownLocation      = "unknown"
)

// Bounds is a map viewport. When SW.Longitude > NE.Longitude the viewport
// crosses the antimeridian.
type Bounds struct {
	SW domain.GeoPoint `json:"sw"`
	NE domain.GeoPoint `json:"ne"`
}

func (b Bounds) validate() error {
	if !domain.ValidCoordinates(b.SW) || !domain.ValidCoordinates(b.NE) {
		return apperr.InvalidQuery("bounds corners must be valid coordinates")
	}
	if b.SW.Latitude > b.NE.Latitude {
		return apperr.InvalidQuery("bounds south-west latitude is north of the north-east latitude")
	}
	return nil
}

func (b Bounds) box() domain.BoundingBox {
	return domain.BoundingBox{SW: b.SW, NE: b.NE}
}

// ParseBounds reads swLng, swLat, neLng and neLat. All four empty means no
// bounds; a partial or malformed set fails with ErrInvalidQuery.
func ParseBounds(swLng, swLat, neLng, neLat string) (*Bounds, error) {
	raw := []string{strings.TrimSpace(swLng), strings.TrimSpace(swLat), strings.TrimSpace(neLng), strings.TrimSpace(neLat)}
	set := 0
	for _, r := range raw {
		if r != "" {
			set++
		}
	}
	if set == 0 {
		return nil, nil
	}
	if set != len(raw) {
		return nil, apperr.InvalidQuery("bounds need swLng, swLat, neLng and neLat")
	}
	vals := make([]float64, len(raw))
	for i, r := range raw {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, apperr.InvalidQuery("bounds value %q is not a number", r)
		}
		vals[i] = v
	}
	b := &Bounds{
		SW: domain.GeoPoint{Longitude: vals[0], Latitude: vals[1]},
		NE: domain.GeoPoint{Longitude: vals[2], Latitude: vals[3]},
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// MapPoint is the lean projection rendered on the map.
type MapPoint struct {
	ID        uuid.UUID        `json:"id"`
	Location  domain.Location  `json:"location"`
	Quantity  float64          `json:"quantity"`
	Unit      domain.Unit      `json:"unit"`
	WasteType domain.WasteType `json:"wasteType"`
	Status    domain.Status    `json:"status"`
}

// MapData returns every listing, or only those inside bounds, newest first.
func (s *Service) MapData(ctx context.Context, bounds *Bounds) ([]MapPoint, error) {
	q := listings.Query{}
	params := "all"
	if bounds != nil {
		if err := bounds.validate(); err != nil {
			return nil, s.reject("map", err)
		}
		box := bounds.box()
		q.Box = &box
		params = fmt.Sprintf("%g,%g,%g,%g", bounds.SW.Longitude, bounds.SW.Latitude, bounds.NE.Longitude, bounds.NE.Latitude)
	}
	return run(ctx, s, "map", params, func(ctx context.Context) ([]MapPoint, error) {
		ls, err := s.load(ctx, "map", q)
		if err != nil {
			return nil, err
		}
		type row struct {
			at time.Time
			p  MapPoint
		}
		rows := make([]row, 0, len(ls))
		for _, l := range ls {
			rows = append(rows, row{at: l.CreatedAt, p: MapPoint{
				ID:        l.ID,
				Location:  l.Location,
				Quantity:  l.Quantity,
				Unit:      l.Unit,
				WasteType: l.WasteType,
				Status:    l.Status,
			}})
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if !rows[i].at.Equal(rows[j].at) {
				return rows[i].at.After(rows[j].at)
			}
			return rows[i].p.ID.String() < rows[j].p.ID.String()
		})
		out := make([]MapPoint, len(rows))
		for i, r := range rows {
			out[i] = r.p
		}
		return out, nil
	})
}

// LocationField names the postal field LocationStats groups by.
type LocationField string

const (
	ByDistrict LocationField = "district"
	ByState    LocationField = "state"
	ByPincode  LocationField = "pincode"
)

func (f LocationField) valid() bool {
	return f == ByDistrict || f == ByState || f == ByPincode
}

func (f LocationField) of(l domain.Listing) string {
	var v string
	switch f {
	case ByDistrict:
		v = l.Location.District
	case ByState:
		v = l.Location.State
	case ByPincode:
		v = l.Location.Pincode
	}
	if v = strings.TrimSpace(v); v == "" {
		return unknownLocation
	}
	return v
}

type LocationStatsParams struct {
	GroupBy LocationField `json:"groupBy"`
	Limit   int           `json:"limit"`
}

type LocationGroup struct {
	Name           string                       `json:"name"`
	TotalWaste     float64                      `json:"totalWaste"`
	Listings       int                          `json:"listings"`
	AveragePrice   float64                      `json:"averagePrice"`
	WasteBreakdown map[domain.WasteType]float64 `json:"wasteBreakdown"`
	Percentage     float64                      `json:"percentage"`
}

type TopLocation struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type LocationSummary struct {
	TotalLocations int          `json:"totalLocations"`
	TotalWaste     float64      `json:"totalWaste"`
	TopLocation    *TopLocation `json:"topLocation"`
}

type LocationStats struct {
	Locations []LocationGroup `json:"locations"`
	Summary   LocationSummary `json:"summary"`
}

// LocationStats ranks locations by total waste. WasteBreakdown sums quantity per
// type inside each group. Percentages are each group's share of the waste of
// all groups in hundredths; across all groups they total exactly 100.
func (s *Service) LocationStats(ctx context.Context, p LocationStatsParams) (*LocationStats, error) {
	if !p.GroupBy.valid() {
		return nil, s.reject("locations", apperr.InvalidArgument("groupBy must be one of district, state, pincode"))
	}
	if p.Limit == 0 {
		p.Limit = DefaultLocationLimit
	}
	if p.Limit < 1 || p.Limit > MaxLocationLimit {
		return nil, s.reject("locations", apperr.InvalidArgument("limit must be between 1 and %d", MaxLocationLimit))
	}
	return run(ctx, s, "locations", fmt.Sprintf("%s:%d", p.GroupBy, p.Limit), func(ctx context.Context) (*LocationStats, error) {
		ls, err := s.load(ctx, "locations", listings.Query{})
		if err != nil {
			return nil, err
		}
		return locationStats(ls, p), nil
	})
}

func locationStats(ls []domain.Listing, p LocationStatsParams) *LocationStats {
	keys, groups := groupBy(ls, p.GroupBy.of)
	grand := sumBy(ls, quantity)

	rows := make([]LocationGroup, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		breakdown := map[domain.WasteType]float64{}
		for _, l := range g {
			breakdown[l.WasteType.Canonical()] += l.Quantity
		}
		total := sumBy(g, quantity)
		rows = append(rows, LocationGroup{
			Name:           k,
			TotalWaste:     total,
			Listings:       len(g),
			AveragePrice:   numeric.Round2(numeric.Mean(sumBy(g, price), len(g))),
			WasteBreakdown: breakdown,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalWaste != rows[j].TotalWaste {
			return rows[i].TotalWaste > rows[j].TotalWaste
		}
		return rows[i].Name < rows[j].Name
	})

	// Shares are allocated over every group before truncation. Equal remainders
	// favor the higher ranked group: larger total, then name.
	totals := make([]float64, len(rows))
	for i, r := range rows {
		totals[i] = r.TotalWaste
	}
	shares := numeric.Shares(totals, func(i, j int) bool { return i < j })
	for i := range rows {
		rows[i].Percentage = shares[i]
	}

	out := &LocationStats{
		Summary: LocationSummary{TotalLocations: len(rows), TotalWaste: grand},
	}
	if len(rows) > p.Limit {
		rows = rows[:p.Limit]
	}
	out.Locations = rows
	if len(rows) > 0 {
		out.Summary.TopLocation = &TopLocation{Name: rows[0].Name, Percentage: rows[0].Percentage}
	}
	return out
}
