package models

import "time"

// User is an API account. Password holds a bcrypt hash.
type User struct {
	ID        uint     `gorm:"primaryKey"`
	Username  string   `gorm:"size:100;not null;uniqueIndex"`
	Password  string   `gorm:"size:255;not null"`
	Roles     []string `gorm:"type:text;serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
