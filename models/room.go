package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// StringList is a list of strings stored as a canonical JSON array in a text column.
// The catalog used to hold ad hoc comma- or JSON-encoded blobs; this type owns the encoding.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

type Room struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Name          string     `json:"name" gorm:"size:255;not null"`
	Description   string     `json:"description" gorm:"size:2000"`
	RoomType      string     `json:"room_type" gorm:"size:50;default:'standard'"`
	Price         float64    `json:"price" gorm:"type:decimal(12,2);not null"` // nightly rate
	Capacity      int        `json:"capacity" gorm:"not null;default:2"`       // max guests
	Size          int        `json:"size" gorm:"default:0"`                    // square meters
	Amenities     StringList `json:"amenities" gorm:"type:text"`
	Images        StringList `json:"images" gorm:"type:text"`
	UnitTotal     int        `json:"unit_total" gorm:"not null;default:1"`
	UnitAvailable int        `json:"unit_available" gorm:"not null;default:1"`
	Enabled       bool       `json:"enabled" gorm:"default:true"` // manual admin switch
	IsListed      bool       `json:"is_listed" gorm:"default:true"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:RoomID"`
}

// TableName specifies the table name for the Room model
func (Room) TableName() string {
	return "rooms"
}

// RecomputeListed derives the listed flag. A room is listed only while it is
// manually enabled and still has un-held units; the stored flag is never
// trusted once unit_available hits zero.
func (r *Room) RecomputeListed() {
	r.IsListed = r.Enabled && r.UnitAvailable > 0
}

// AvailabilityText returns the catalog display string for remaining units
func (r *Room) AvailabilityText() string {
	switch {
	case r.UnitAvailable <= 0:
		return "Sold Out"
	case r.UnitAvailable <= 2:
		return "Only " + strconv.Itoa(r.UnitAvailable) + " left"
	default:
		return strconv.Itoa(r.UnitAvailable) + " available"
	}
}
