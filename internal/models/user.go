package models

import (
	"time"
)

// User owns an exercise log. Log order is insertion order, never date order.
type User struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"_id"`
	Username  string     `gorm:"not null;type:varchar(255)" json:"username"`
	CreatedAt time.Time  `gorm:"not null;index" json:"-"`
	Log       []Exercise `gorm:"foreignKey:UserID" json:"log,omitempty"`
}

func (User) TableName() string {
	return "users"
}
