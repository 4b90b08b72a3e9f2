package model

import (
	"time"

	"gorm.io/datatypes"
)

// Brand moderation status. Codes are persisted as smallint and must stay
// stable for existing rows.
type BrandStatus int16

const (
	BrandDraft     BrandStatus = 0
	BrandPending   BrandStatus = 1
	BrandActive    BrandStatus = 2
	BrandSuspended BrandStatus = 3
	BrandArchived  BrandStatus = 4
)

func (s BrandStatus) String() string {
	switch s {
	case BrandDraft:
		return "draft"
	case BrandPending:
		return "pending"
	case BrandActive:
		return "active"
	case BrandSuspended:
		return "suspended"
	case BrandArchived:
		return "archived"
	}
	return "unknown"
}

// brands — seller entities owned by a user
type Brand struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;index"`

	Name        string `gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" validate:"required"`
	Description string `gorm:"type:text"`

	// Opaque identifiers in the external blob store.
	Logo       string `gorm:"type:varchar(255)"`
	CoverImage string `gorm:"type:varchar(255)"`

	Website string `gorm:"type:varchar(255)" validate:"omitempty,url"`
	Email   string `gorm:"type:varchar(255)" validate:"omitempty,email"`
	Phone   string `gorm:"type:varchar(32)"`
	Address string `gorm:"type:text"`
	City    string `gorm:"type:varchar(100)"`
	Country string `gorm:"type:varchar(100)"`

	Latitude  *float64 `gorm:"type:decimal(10,7)"`
	Longitude *float64 `gorm:"type:decimal(10,7)"`

	Status     BrandStatus `gorm:"type:smallint;not null;default:0;index"`
	Verified   bool        `gorm:"not null;default:false;index"`
	VerifiedAt *time.Time

	Settings datatypes.JSON `gorm:"type:jsonb"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User        *User        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Experiences []Experience `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Coordinates returns the geo pair when both components are set.
func (b *Brand) Coordinates() (lat, lng float64, ok bool) {
	if b.Latitude == nil || b.Longitude == nil {
		return 0, 0, false
	}
	return *b.Latitude, *b.Longitude, true
}
