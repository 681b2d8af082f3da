package models

import "time"

// Message is a record of an outbound guest notification (SMS etc).
// Delivery is handled by an external provider; we only keep the log.
type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurant_id"`
	GuestID      *uint     `gorm:"index" json:"guest_id,omitempty"`
	Guest        *Guest    `gorm:"foreignKey:GuestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"guest,omitempty"`
	GuestName    string    `gorm:"type:varchar(100)" json:"guest_name"`
	Phone        string    `gorm:"type:varchar(30);not null" json:"phone"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	Sent         bool      `gorm:"default:false" json:"sent"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}
