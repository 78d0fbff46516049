package models

import (
	"gorm.io/gorm"
)

// Migrate creates or updates the tables used by the relational backend.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Exercise{},
	)
}
