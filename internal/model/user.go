package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// users
type User struct {
	ID uint `gorm:"primaryKey"`

	EmailAddress   string `gorm:"type:varchar(255);not null;uniqueIndex" validate:"required,email"`
	PasswordDigest string `gorm:"type:varchar(255);not null" validate:"required"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Navigation fields (handy for Preload).
	Profile       *Profile       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Brands        []Brand        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Bookings      []Booking      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Reviews       []Review       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Favorites     []Favorite     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// profiles — display identity, 1:1 with users
type Profile struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;uniqueIndex"`

	FirstName string `gorm:"type:varchar(100)" validate:"max=100"`
	LastName  string `gorm:"type:varchar(100)" validate:"max=100"`
	Bio       string `gorm:"type:text"`

	// Opaque identifier in the external blob store.
	Avatar string `gorm:"type:varchar(255)"`

	Phone    string `gorm:"type:varchar(32)"`
	Locale   string `gorm:"type:varchar(16)"`
	Timezone string `gorm:"type:varchar(64)"`

	Preferences datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// FullName joins the non-empty name parts.
func (p *Profile) FullName() string {
	parts := make([]string, 0, 2)
	if p.FirstName != "" {
		parts = append(parts, p.FirstName)
	}
	if p.LastName != "" {
		parts = append(parts, p.LastName)
	}
	return strings.Join(parts, " ")
}

// Initials returns the upper-cased first letters of the names, "?" when absent.
func (p *Profile) Initials() string {
	var b strings.Builder
	for _, name := range []string{p.FirstName, p.LastName} {
		for _, r := range name {
			b.WriteRune(r)
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return strings.ToUpper(b.String())
}

// DisplayName falls back to the local part of the email address when the
// profile carries no name.
func (p *Profile) DisplayName(emailAddress string) string {
	if full := p.FullName(); full != "" {
		return full
	}
	local, _, _ := strings.Cut(emailAddress, "@")
	return local
}
