package model

import "gorm.io/gorm"

// AutoMigrate migrates every marketplace entity, parents before children.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Profile{},
		&Brand{},
		&Category{},
		&Experience{},
		&Booking{},
		&Review{},
		&Favorite{},
		&Tag{},
		&Tagging{},
		&Notification{},
	)
}
