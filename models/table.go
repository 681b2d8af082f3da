package models

import (
	"time"

	"gorm.io/datatypes"
)

// Table statuses. CurrentGuestID is set only while occupied,
// ReservedForID only while reserved.
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
	TableCleaning  = "cleaning"
)

type Table struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	RestaurantID   uint           `gorm:"not null;uniqueIndex:idx_restaurant_table_number" json:"restaurant_id"`
	Restaurant     Restaurant     `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber    string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_restaurant_table_number" json:"table_number"`
	Capacity       int            `gorm:"not null" json:"capacity"`
	Status         string         `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Section        string         `gorm:"type:varchar(50)" json:"section"`
	Shape          string         `gorm:"type:varchar(20);default:'square'" json:"shape"`
	Position       datatypes.JSON `json:"position"` // floor-plan coordinates, rendering only
	CurrentGuestID *uint          `gorm:"index" json:"current_guest_id,omitempty"`
	ReservedForID  *uint          `json:"reserved_for_id,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}
