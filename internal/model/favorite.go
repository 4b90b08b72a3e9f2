package model

import "time"

// favorites — user bookmarks of a favoritable target.
// One favorite per (user, target) pair.
type Favorite struct {
	ID uint `gorm:"primaryKey"`

	UserID          uint       `gorm:"not null;uniqueIndex:ux_favorites_user_target"`
	FavoritableKind TargetKind `gorm:"type:varchar(32);not null;uniqueIndex:ux_favorites_user_target;index:idx_favorites_target"`
	FavoritableID   uint       `gorm:"not null;uniqueIndex:ux_favorites_user_target;index:idx_favorites_target"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
