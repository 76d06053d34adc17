package model

import (
	"time"

	"github.com/google/uuid"
)

// TopUpRequest represents the database model for top-up requests.
// The review columns stay null while the request is pending.
type TopUpRequest struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null"`
	Amount           int64      `gorm:"not null;check:chk_topup_requests_amount_positive,amount > 0"`
	ReceiptReference string     `gorm:"size:512;not null"`
	ReceiptMimeType  string     `gorm:"size:128;not null;default:''"`
	Status           string     `gorm:"size:16;not null"`
	SubmittedAt      time.Time  `gorm:"not null"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt       *time.Time
	LedgerEntryID    *uuid.UUID `gorm:"type:uuid"`
	ReviewNotes      string     `gorm:"type:text;not null;default:''"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for TopUpRequest
func (TopUpRequest) TableName() string {
	return "topup_requests"
}
