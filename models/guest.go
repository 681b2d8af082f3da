package models

import "time"

// Guest statuses. A guest carries a table number only while seated.
const (
	GuestWaiting   = "waiting"
	GuestReserved  = "reserved"
	GuestSeated    = "seated"
	GuestCompleted = "completed"
)

// Guest sources (how the party entered the waitlist).
const (
	SourceWalkIn = "walk-in"
	SourcePhone  = "phone"
	SourceOnline = "online"
	SourceApp    = "app"
)

type Guest struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	RestaurantID     uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant       Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name             string     `gorm:"type:varchar(100);not null" json:"name"`
	Phone            string     `gorm:"type:varchar(30);not null" json:"phone"`
	Email            *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	PartySize        int        `gorm:"not null" json:"party_size"`
	Status           string     `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	TableNumber      *string    `gorm:"type:varchar(50)" json:"table_number,omitempty"`
	SpecialRequests  string     `gorm:"type:text" json:"special_requests"`
	Source           string     `gorm:"type:varchar(20);not null;default:'walk-in'" json:"source"`
	QuotedWait       *int       `json:"quoted_wait,omitempty"` // minutes
	Notified         bool       `gorm:"default:false" json:"notified"`
	ConfirmationCode string     `gorm:"type:varchar(36);uniqueIndex" json:"confirmation_code"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}
