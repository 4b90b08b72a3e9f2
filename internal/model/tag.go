package model

import "time"

// tags
type Tag struct {
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"type:varchar(50);not null;uniqueIndex" validate:"required,max=50"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" validate:"required"`

	Color string `gorm:"type:varchar(32)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Taggings []Tagging `gorm:"foreignKey:TagID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// taggings — join of a tag to a taggable target.
// One tagging per (tag, target) pair.
type Tagging struct {
	ID uint `gorm:"primaryKey"`

	TagID        uint       `gorm:"not null;uniqueIndex:ux_taggings_tag_target"`
	TaggableKind TargetKind `gorm:"type:varchar(32);not null;uniqueIndex:ux_taggings_tag_target;index:idx_taggings_target"`
	TaggableID   uint       `gorm:"not null;uniqueIndex:ux_taggings_tag_target;index:idx_taggings_target"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Tag *Tag `gorm:"foreignKey:TagID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
