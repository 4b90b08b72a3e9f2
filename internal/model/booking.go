package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Booking lifecycle status. Codes are persisted as smallint and must stay
// stable for existing rows.
type BookingStatus int16

const (
	BookingPending   BookingStatus = 0
	BookingConfirmed BookingStatus = 1
	BookingCompleted BookingStatus = 2
	BookingCancelled BookingStatus = 3
	BookingRefunded  BookingStatus = 4
	BookingNoShow    BookingStatus = 5
)

func (s BookingStatus) String() string {
	switch s {
	case BookingPending:
		return "pending"
	case BookingConfirmed:
		return "confirmed"
	case BookingCompleted:
		return "completed"
	case BookingCancelled:
		return "cancelled"
	case BookingRefunded:
		return "refunded"
	case BookingNoShow:
		return "no_show"
	}
	return "unknown"
}

// bookingTransitions is the guarded state machine. Completed, refunded and
// no_show are terminal; refunds are reachable only after cancel or complete.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled, BookingNoShow},
	BookingCancelled: {BookingRefunded},
	BookingCompleted: {BookingRefunded},
}

// CanTransitionTo reports whether the guarded lifecycle allows moving to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// bookings — reservations of participant slots on an experience
type Booking struct {
	ID uint `gorm:"primaryKey"`

	// Opaque reference handed to external systems.
	Reference uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	UserID       uint `gorm:"not null;index"`
	ExperienceID uint `gorm:"not null;index"`

	Status BookingStatus `gorm:"type:smallint;not null;default:0;index"`

	Participants int `gorm:"not null" validate:"required,gt=0"`

	// Derived at creation from the experience price; never user-settable.
	TotalCents    *int64 `validate:"omitempty,gte=0"`
	TotalCurrency string `gorm:"type:varchar(3)"`

	ScheduledAt time.Time  `gorm:"not null;index" validate:"required"`
	ConfirmedAt *time.Time
	CancelledAt *time.Time

	Notes    string         `gorm:"type:text"`
	Metadata datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User       *User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Experience *Experience `gorm:"foreignKey:ExperienceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// cancelWindow is how far ahead of the scheduled time a booking may still be
// cancelled by its owner.
const cancelWindow = 24 * time.Hour

// CanCancel is advisory: callers use it to show or hide the cancel action.
// It does not by itself block the cancel transition.
func (b *Booking) CanCancel(now time.Time) bool {
	if b.Status != BookingPending && b.Status != BookingConfirmed {
		return false
	}
	return b.ScheduledAt.After(now.Add(cancelWindow))
}

// Total converts the stored minor units to a major-unit display value.
// Display only; never feed the result back into stored totals.
func (b *Booking) Total() *float64 {
	if b.TotalCents == nil {
		return nil
	}
	t := float64(*b.TotalCents) / 100.0
	return &t
}

// FormattedTotal renders the display total, "Free" for zero or unpriced.
func (b *Booking) FormattedTotal() string {
	if b.TotalCents == nil || *b.TotalCents == 0 {
		return "Free"
	}
	return fmt.Sprintf("%.2f %s", *b.Total(), b.TotalCurrency)
}
