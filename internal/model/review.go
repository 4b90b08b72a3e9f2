package model

import "time"

// Review moderation status. Codes are persisted as smallint and must stay
// stable for existing rows.
type ReviewStatus int16

const (
	ReviewPending  ReviewStatus = 0
	ReviewApproved ReviewStatus = 1
	ReviewRejected ReviewStatus = 2
	ReviewFlagged  ReviewStatus = 3
)

func (s ReviewStatus) String() string {
	switch s {
	case ReviewPending:
		return "pending"
	case ReviewApproved:
		return "approved"
	case ReviewRejected:
		return "rejected"
	case ReviewFlagged:
		return "flagged"
	}
	return "unknown"
}

// reviews — rating+text evaluations of a reviewable target.
// One review per (user, target) pair.
type Review struct {
	ID uint `gorm:"primaryKey"`

	UserID         uint       `gorm:"not null;uniqueIndex:ux_reviews_user_target"`
	ReviewableKind TargetKind `gorm:"type:varchar(32);not null;uniqueIndex:ux_reviews_user_target;index:idx_reviews_target"`
	ReviewableID   uint       `gorm:"not null;uniqueIndex:ux_reviews_user_target;index:idx_reviews_target"`

	Rating  int    `gorm:"not null" validate:"required,min=1,max=5"`
	Title   string `gorm:"type:varchar(200)" validate:"max=200"`
	Content string `gorm:"type:text;not null" validate:"required,min=10,max=2000"`

	Status       ReviewStatus `gorm:"type:smallint;not null;default:0;index"`
	HelpfulCount int          `gorm:"not null;default:0"`
	ReportedAt   *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
