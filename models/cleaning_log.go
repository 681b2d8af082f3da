package models

import (
	"time"
)

// CleaningLog tracks a table's turnaround between clearing and
// being marked available again.
type CleaningLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CleanerID *uint     `json:"cleaner_id,omitempty"`
	Cleaner   *User     `gorm:"foreignKey:CleanerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"cleaner,omitempty"`
	TableID   uint      `gorm:"not null" json:"table_id"`
	Table     Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	Status    string    `gorm:"type:varchar(15);not null;default:'pending'" json:"status"` // pending, done
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
