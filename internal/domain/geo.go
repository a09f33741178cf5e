package domain

import "math"

// EarthRadiusMeters is the IUGG mean earth radius.
const EarthRadiusMeters = 6371008.8

// BoundingBox is an axis-aligned lng/lat rectangle given by its south-west and
// north-east corners. When SW.Longitude > NE.Longitude the box crosses the antimeridian.
type BoundingBox struct {
	SW GeoPoint `json:"sw"`
	NE GeoPoint `json:"ne"`
}

// Contains reports whether p lies in the box, edges inclusive.
func (b BoundingBox) Contains(p GeoPoint) bool {
	if p.Latitude < b.SW.Latitude || p.Latitude > b.NE.Latitude {
		return false
	}
	if b.CrossesAntimeridian() {
		return p.Longitude >= b.SW.Longitude || p.Longitude <= b.NE.Longitude
	}
	return p.Longitude >= b.SW.Longitude && p.Longitude <= b.NE.Longitude
}

func (b BoundingBox) CrossesAntimeridian() bool {
	return b.SW.Longitude > b.NE.Longitude
}

// ValidCoordinates reports whether p is a finite WGS84 coordinate.
func ValidCoordinates(p GeoPoint) bool {
	if math.IsNaN(p.Longitude) || math.IsNaN(p.Latitude) {
		return false
	}
	return p.Longitude >= -180 && p.Longitude <= 180 && p.Latitude >= -90 && p.Latitude <= 90
}

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// BoxAround returns a box that encloses every point within radius meters of
// center. Near the poles the box widens to all longitudes.
func BoxAround(center GeoPoint, radius float64) BoundingBox {
	angular := radius / EarthRadiusMeters
	dLat := angular * 180 / math.Pi
	south := math.Max(-90, center.Latitude-dLat)
	north := math.Min(90, center.Latitude+dLat)
	all := BoundingBox{SW: GeoPoint{Longitude: -180, Latitude: south}, NE: GeoPoint{Longitude: 180, Latitude: north}}

	cosLat := math.Cos(center.Latitude * math.Pi / 180)
	if north >= 90 || south <= -90 || angular >= math.Pi/2 {
		return all
	}
	ratio := math.Sin(angular) / cosLat
	if ratio >= 1 {
		return all
	}
	dLng := math.Asin(ratio) * 180 / math.Pi
	west := center.Longitude - dLng
	east := center.Longitude + dLng
	if west < -180 {
		west += 360
	}
	if east > 180 {
		east -= 360
	}
	return BoundingBox{SW: GeoPoint{Longitude: west, Latitude: south}, NE: GeoPoint{Longitude: east, Latitude: north}}
}
