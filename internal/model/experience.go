package model

import (
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"
)

// Experience publication status. Codes are persisted as smallint and must
// stay stable for existing rows.
type ExperienceStatus int16

const (
	ExperienceDraft     ExperienceStatus = 0
	ExperiencePending   ExperienceStatus = 1
	ExperienceActive    ExperienceStatus = 2
	ExperienceSoldOut   ExperienceStatus = 3
	ExperienceCancelled ExperienceStatus = 4
	ExperienceArchived  ExperienceStatus = 5
)

func (s ExperienceStatus) String() string {
	switch s {
	case ExperienceDraft:
		return "draft"
	case ExperiencePending:
		return "pending"
	case ExperienceActive:
		return "active"
	case ExperienceSoldOut:
		return "sold_out"
	case ExperienceCancelled:
		return "cancelled"
	case ExperienceArchived:
		return "archived"
	}
	return "unknown"
}

// DefaultCurrency is applied when an experience carries no explicit currency.
const DefaultCurrency = "EUR"

// experiences — bookable offerings owned by a brand
type Experience struct {
	ID uint `gorm:"primaryKey"`

	BrandID    uint  `gorm:"not null;index"`
	CategoryID *uint `gorm:"index"`

	Title            string `gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Slug             string `gorm:"type:varchar(255);not null;uniqueIndex" validate:"required"`
	Description      string `gorm:"type:text"`
	ShortDescription string `gorm:"type:varchar(255)"`

	// Opaque identifier in the external blob store.
	CoverImage string `gorm:"type:varchar(255)"`

	// Monetary amount in minor units; nil means unpriced, zero means free.
	PriceCents    *int64 `validate:"omitempty,gte=0"`
	PriceCurrency string `gorm:"type:varchar(3)"`

	DurationMinutes *int `validate:"omitempty,gt=0"`
	Capacity        *int `validate:"omitempty,gt=0"`
	MinParticipants *int `validate:"omitempty,gt=0"`

	Location string `gorm:"type:varchar(255)"`
	Address  string `gorm:"type:text"`
	City     string `gorm:"type:varchar(100)"`
	Country  string `gorm:"type:varchar(100)"`

	Latitude  *float64 `gorm:"type:decimal(10,7)"`
	Longitude *float64 `gorm:"type:decimal(10,7)"`

	Status   ExperienceStatus `gorm:"type:smallint;not null;default:0;index"`
	Featured bool             `gorm:"not null;default:false;index"`

	StartsAt *time.Time
	EndsAt   *time.Time

	Settings datatypes.JSON `gorm:"type:jsonb"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Brand    *Brand    `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Bookings []Booking `gorm:"foreignKey:ExperienceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Price converts the stored minor units to a major-unit display value.
// Display only; never feed the result back into stored totals.
func (e *Experience) Price() *float64 {
	if e.PriceCents == nil {
		return nil
	}
	p := float64(*e.PriceCents) / 100.0
	return &p
}

// SetPrice stores a major-unit amount as minor units.
func (e *Experience) SetPrice(major float64) {
	cents := int64(math.Round(major * 100))
	e.PriceCents = &cents
}

// FormattedPrice renders the display price, "Free" for zero or unpriced.
func (e *Experience) FormattedPrice() string {
	if e.PriceCents == nil || *e.PriceCents == 0 {
		return "Free"
	}
	return fmt.Sprintf("%.2f %s", *e.Price(), e.Currency())
}

// Currency returns the effective currency code.
func (e *Experience) Currency() string {
	if e.PriceCurrency == "" {
		return DefaultCurrency
	}
	return e.PriceCurrency
}

// DurationInHours converts the stored minutes for display.
func (e *Experience) DurationInHours() *float64 {
	if e.DurationMinutes == nil {
		return nil
	}
	h := float64(*e.DurationMinutes) / 60.0
	return &h
}

// Coordinates returns the geo pair when both components are set.
func (e *Experience) Coordinates() (lat, lng float64, ok bool) {
	if e.Latitude == nil || e.Longitude == nil {
		return 0, 0, false
	}
	return *e.Latitude, *e.Longitude, true
}
