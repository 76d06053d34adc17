package model

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEntry represents the database model for the append-only wallet ledger
type LedgerEntry struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null"`
	Sequence            int64      `gorm:"not null"`
	Type                string     `gorm:"size:32;not null"`
	Amount              int64      `gorm:"not null"`
	WalletBalanceBefore int64      `gorm:"not null"`
	WalletBalanceAfter  int64      `gorm:"not null"`
	LoyaltyPointsBefore int64      `gorm:"not null"`
	LoyaltyPointsAfter  int64      `gorm:"not null"`
	BookingID           *uuid.UUID `gorm:"type:uuid"`
	TopUpRequestID      *uuid.UUID `gorm:"type:uuid"`
	PerformedBy         *uuid.UUID `gorm:"type:uuid"`
	Description         string     `gorm:"type:text;not null;default:''"`
	Timestamp           time.Time  `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
