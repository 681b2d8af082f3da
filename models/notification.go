package models

import (
	"time"
)

type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"index" json:"restaurant_id"`
	UserID       *uint     `json:"user_id,omitempty"`
	User         User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"user,omitempty"`
	Title        *string   `gorm:"type:varchar(100)" json:"title,omitempty"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	Kind         string    `gorm:"type:varchar(10);not null;default:'info'" json:"kind"` // success, error, info
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
