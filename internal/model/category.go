package model

import "time"

// categories — self-referential taxonomy tree
type Category struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Slug        string `gorm:"type:varchar(255);not null;uniqueIndex" validate:"required"`
	Description string `gorm:"type:text"`

	Icon  string `gorm:"type:varchar(100)"`
	Color string `gorm:"type:varchar(32)"`

	ParentID *uint `gorm:"index"`

	Position int  `gorm:"not null;default:0"`
	Active   bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Deleting a parent orphans the children rather than cascading.
	Parent   *Category  `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Children []Category `gorm:"foreignKey:ParentID"`

	Experiences []Experience `gorm:"foreignKey:CategoryID"`
}

// Root reports whether the category has no parent.
func (c *Category) Root() bool {
	return c.ParentID == nil
}
