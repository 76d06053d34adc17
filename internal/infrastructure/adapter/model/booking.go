package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking represents the database model for bookings
type Booking struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid;not null"`
	ScreenID          uuid.UUID `gorm:"type:uuid;not null"`
	SlotID            string    `gorm:"size:32;not null"`
	StartTime         time.Time `gorm:"not null"`
	EndTime           time.Time `gorm:"not null"`
	Status            string    `gorm:"size:16;not null"`
	PricePaid         int64     `gorm:"not null"`
	GamerTagAtBooking string    `gorm:"size:64;not null"`
	CreatedAt         time.Time `gorm:"not null"`

	User   User   `gorm:"foreignKey:UserID;references:ID"`
	Screen Screen `gorm:"foreignKey:ScreenID;references:ID"`
}

// TableName specifies the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}
