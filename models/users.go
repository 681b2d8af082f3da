package models

import "time"

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RestaurantID *uint       `gorm:"index" json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Name         string      `gorm:"type:varchar(255); not null" json:"name"`
	Email        string      `gorm:"type:varchar(255); unique;not null" json:"email"`
	Password     string      `gorm:"type:varchar(255); not null" json:"-"`
	Role         string      `gorm:"type:varchar(255); not null" json:"role"` // admin, manager, host, cleaner
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
