package models

import (
	"time"
)

// Exercise is a single log entry. The auto-increment ID records insertion order.
type Exercise struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      string    `gorm:"not null;type:varchar(36);index" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	Duration    int       `gorm:"not null" json:"duration"` // minutes
	Date        time.Time `gorm:"not null" json:"date"`
	CreatedAt   time.Time `json:"-"`
}

func (Exercise) TableName() string {
	return "exercises"
}
