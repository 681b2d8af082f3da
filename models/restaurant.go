package models

import (
	"time"

	"gorm.io/datatypes"
)

type Restaurant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string         `gorm:"type:varchar(100);unique;not null" json:"slug"`
	Phone     string         `gorm:"type:varchar(30)" json:"phone"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Address   string         `gorm:"type:text" json:"address"`
	OpenHours datatypes.JSON `json:"open_hours"` // per-day open/close strings
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}
