package model

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types accepted by creation. Anything outside this vocabulary
// fails validation.
const (
	NotificationBookingConfirmed    = "booking_confirmed"
	NotificationBookingCancelled    = "booking_cancelled"
	NotificationBookingReminder     = "booking_reminder"
	NotificationReviewReceived      = "review_received"
	NotificationReviewApproved      = "review_approved"
	NotificationFavoriteAdded       = "favorite_added"
	NotificationBrandVerified       = "brand_verified"
	NotificationExperiencePublished = "experience_published"
	NotificationSystemMessage       = "system_message"
)

var notificationTypes = map[string]struct{}{
	NotificationBookingConfirmed:    {},
	NotificationBookingCancelled:    {},
	NotificationBookingReminder:     {},
	NotificationReviewReceived:      {},
	NotificationReviewApproved:      {},
	NotificationFavoriteAdded:       {},
	NotificationBrandVerified:       {},
	NotificationExperiencePublished: {},
	NotificationSystemMessage:       {},
}

// KnownNotificationType reports whether t is in the fixed allow-list.
func KnownNotificationType(t string) bool {
	_, ok := notificationTypes[t]
	return ok
}

// notifications — typed messages to a user, optionally referencing a target.
// Read state is a nullable timestamp, not a boolean.
type Notification struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;index"`

	// Optional polymorphic reference; system messages carry none.
	NotifiableKind *TargetKind `gorm:"type:varchar(32);index:idx_notifications_target"`
	NotifiableID   *uint       `gorm:"index:idx_notifications_target"`

	// Presence and vocabulary are checked at creation, keyed notification_type.
	Type  string `gorm:"column:notification_type;type:varchar(64);not null;index"`
	Title string `gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Body  string `gorm:"type:text"`

	ReadAt *time.Time `gorm:"index"`

	Data datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Read reports whether the notification has been read.
func (n *Notification) Read() bool {
	return n.ReadAt != nil
}
