package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WasteType tags the kind of residue in a lot.
type WasteType string

const (
	WasteStraw  WasteType = "straw"
	WasteHusk   WasteType = "husk"
	WasteLeaves WasteType = "leaves"
	WasteStalks WasteType = "stalks"
	WasteOther  WasteType = "other"
)

// WasteTypes lists the accepted tags in display order.
var WasteTypes = []WasteType{WasteStraw, WasteHusk, WasteLeaves, WasteStalks, WasteOther}

// Valid reports whether t is one of the accepted tags.
func (t WasteType) Valid() bool {
	switch t {
	case WasteStraw, WasteHusk, WasteLeaves, WasteStalks, WasteOther:
		return true
	}
	return false
}

// Canonical folds unknown or empty tags into WasteOther.
func (t WasteType) Canonical() WasteType {
	if t.Valid() {
		return t
	}
	return WasteOther
}

// Status is the lifecycle state of a listing.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusSold, StatusCancelled:
		return true
	}
	return false
}

// Unit is the unit a producer quoted quantity and price in.
type Unit string

const (
	UnitKg      Unit = "kg"
	UnitQuintal Unit = "quintal"
	UnitTon     Unit = "ton"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitQuintal, UnitTon:
		return true
	}
	return false
}

// KgFactor is the number of kilograms in one u. Unknown units count as kg.
func (u Unit) KgFactor() float64 {
	switch u {
	case UnitTon:
		return 1000
	case UnitQuintal:
		return 100
	default:
		return 1
	}
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Location is the postal address of a lot plus its optional map point.
type Location struct {
	Address   string   `gorm:"column:address" json:"address"`
	District  string   `gorm:"column:district;index" json:"district"`
	State     string   `gorm:"column:state;index" json:"state"`
	Pincode   string   `gorm:"column:pincode;index" json:"pincode"`
	Longitude *float64 `gorm:"column:longitude;index:idx_location_point,priority:1" json:"longitude,omitempty"`
	Latitude  *float64 `gorm:"column:latitude;index:idx_location_point,priority:2" json:"latitude,omitempty"`
}

// Point returns the map point when both coordinates are present.
func (l Location) Point() (GeoPoint, bool) {
	if l.Longitude == nil || l.Latitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Longitude: *l.Longitude, Latitude: *l.Latitude}, true
}

// Listing is a waste lot offered by a producer.
type Listing struct {
	ID            uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProducerID    uuid.UUID                   `gorm:"column:producer_id;type:uuid;not null;index" json:"producerId"`
	Producer      *Producer                   `gorm:"foreignKey:ProducerID" json:"producer,omitempty"`
	CropType      string                      `gorm:"column:crop_type;not null;index" json:"cropType"`
	WasteType     WasteType                   `gorm:"column:waste_type;type:varchar(20);not null;index" json:"wasteType"`
	Quantity      float64                     `gorm:"column:quantity;not null" json:"quantity"`
	Unit          Unit                        `gorm:"column:unit;type:varchar(10);not null;default:'kg'" json:"unit"`
	Price         float64                     `gorm:"column:price;not null" json:"price"`
	AvailableFrom time.Time                   `gorm:"column:available_from" json:"availableFrom"`
	Location      Location                    `gorm:"embedded" json:"location"`
	Images        datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Status        Status                      `gorm:"column:status;type:varchar(20);not null;default:'available';index" json:"status"`
	Description   string                      `gorm:"column:description" json:"description"`
	CreatedAt     time.Time                   `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "waste_listings"
}

// BeforeCreate assigns the id and the default status.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = StatusAvailable
	}
	if l.Unit == "" {
		l.Unit = UnitKg
	}
	return nil
}

// Revenue is quantity times unit price; it is never stored.
func (l Listing) Revenue() float64 {
	return l.Quantity * l.Price
}

// Normalized returns a copy expressed in kilograms. Quantity is scaled up and
// price scaled down by the same factor, so Revenue is unchanged.
func (l Listing) Normalized() Listing {
	f := l.Unit.KgFactor()
	l.Quantity *= f
	l.Price /= f
	l.Unit = UnitKg
	return l
}
