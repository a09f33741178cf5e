package search

import (
	"math"
	"strconv"
	"strings"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

const (
	DefaultLimit        = 10
	MaxLimit            = 100
	DefaultRadiusMeters = 10000.0
	maxRadiusMeters     = 20037508.0 // half the equatorial circumference
)

// LocationMatch filters on the postal fields of a listing's location. Empty
// fields do not filter.
type LocationMatch struct {
	Pincode  string `json:"pincode"`
	State    string `json:"state"`
	District string `json:"district"`
}

func (m *LocationMatch) empty() bool {
	return m == nil || (m.Pincode == "" && m.State == "" && m.District == "")
}

// Proximity restricts results to listings within RadiusMeters of Point.
// A zero radius means the engine default.
type Proximity struct {
	Point        domain.GeoPoint `json:"point"`
	RadiusMeters float64         `json:"radiusMeters" validate:"gte=0"`
}

// Filters is the closed set of search predicates. All set predicates must hold.
// Location and Near are mutually exclusive, and so are SearchText and Near.
type Filters struct {
	SearchText string           `json:"searchText" validate:"max=200"`
	CropType   string           `json:"cropType"`
	WasteType  domain.WasteType `json:"wasteType" validate:"omitempty,oneof=straw husk leaves stalks other"`
	Status     domain.Status    `json:"status" validate:"omitempty,oneof=available booked sold cancelled"`
	Location   *LocationMatch   `json:"location"`
	Near       *Proximity       `json:"near"`
	ProducerID *uuid.UUID       `json:"producerId"`
	Limit      int              `json:"limit" validate:"gte=0,lte=100"`
	Skip       int              `json:"skip" validate:"gte=0"`
}

// Validate reports the first malformed or conflicting predicate as ErrInvalidQuery.
func (f Filters) Validate() error {
	if err := validation.Struct(f); err != nil {
		return apperr.InvalidQuery("%s", err.Error())
	}
	if strings.TrimSpace(f.SearchText) != "" && len(terms(f.SearchText)) == 0 {
		return apperr.InvalidQuery("searchText must contain a letter or digit")
	}
	if f.Near != nil {
		if !domain.ValidCoordinates(f.Near.Point) {
			return apperr.InvalidQuery("near point is not a valid coordinate")
		}
		if math.IsNaN(f.Near.RadiusMeters) || math.IsInf(f.Near.RadiusMeters, 0) || f.Near.RadiusMeters > maxRadiusMeters {
			return apperr.InvalidQuery("radius must be a finite distance up to %.0f meters", maxRadiusMeters)
		}
		if !f.Location.empty() {
			return apperr.InvalidQuery("location fields and a proximity point cannot be combined")
		}
		if strings.TrimSpace(f.SearchText) != "" {
			return apperr.InvalidQuery("searchText cannot be combined with a proximity point")
		}
	}
	return nil
}

func (f Filters) limit() int {
	if f.Limit == 0 {
		return DefaultLimit
	}
	return f.Limit
}

// ParseFilters builds Filters from raw query parameters. Missing keys leave the
// predicate unset; malformed values fail with ErrInvalidQuery.
func ParseFilters(params map[string]string) (Filters, error) {
	get := func(k string) string { return strings.TrimSpace(params[k]) }
	f := Filters{
		SearchText: get("searchText"),
		CropType:   get("cropType"),
		WasteType:  domain.WasteType(get("wasteType")),
		Status:     domain.Status(get("status")),
	}

	loc := LocationMatch{Pincode: get("pincode"), State: get("state"), District: get("district")}
	if !loc.empty() {
		f.Location = &loc
	}

	if raw := get("producerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Filters{}, apperr.InvalidQuery("producerId is not a valid id")
		}
		f.ProducerID = &id
	}

	var err error
	if f.Limit, err = parseInt(get("limit"), "limit", 1, MaxLimit); err != nil {
		return Filters{}, err
	}
	if f.Skip, err = parseInt(get("skip"), "skip", 0, math.MaxInt32); err != nil {
		return Filters{}, err
	}

	lng, lat, radius := get("longitude"), get("latitude"), get("radius")
	switch {
	case lng != "" && lat != "":
		p := Proximity{}
		if p.Point.Longitude, err = parseFloat(lng, "longitude"); err != nil {
			return Filters{}, err
		}
		if p.Point.Latitude, err = parseFloat(lat, "latitude"); err != nil {
			return Filters{}, err
		}
		if radius != "" {
			if p.RadiusMeters, err = parseFloat(radius, "radius"); err != nil {
				return Filters{}, err
			}
			if p.RadiusMeters <= 0 {
				return Filters{}, apperr.InvalidQuery("radius must be positive")
			}
		}
		f.Near = &p
	case lng != "" || lat != "":
		return Filters{}, apperr.InvalidQuery("longitude and latitude must be given together")
	case radius != "":
		return Filters{}, apperr.InvalidQuery("radius needs longitude and latitude")
	}

	if err := f.Validate(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

func parseInt(raw, name string, min, max int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidQuery("%s must be an integer", name)
	}
	if n < min || n > max {
		return 0, apperr.InvalidQuery("%s must be between %d and %d", name, min, max)
	}
	return n, nil
}

func parseFloat(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.InvalidQuery("%s must be a number", name)
	}
	return v, nil
}
