package model

import (
	"time"

	"github.com/google/uuid"
)

// Screen represents the database model for screens
type Screen struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"size:128;not null"`
	BasePrice int64           `gorm:"not null;check:chk_screens_base_price_non_negative,base_price >= 0"`
	IsActive  bool            `gorm:"not null;default:true"`
	Overrides []PriceOverride `gorm:"foreignKey:ScreenID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Screen
func (Screen) TableName() string {
	return "screens"
}

// PriceOverride is one pricing rule of a screen. Position keeps the evaluation order.
type PriceOverride struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	ScreenID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position    int       `gorm:"not null"`
	DaysMask    int16     `gorm:"not null"` // bit n set = time.Weekday(n)
	StartMinute int       `gorm:"not null"`
	EndMinute   int       `gorm:"not null"`
	Price       int64     `gorm:"not null"`
}

// TableName specifies the table name for PriceOverride
func (PriceOverride) TableName() string {
	return "price_overrides"
}
