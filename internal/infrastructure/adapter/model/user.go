package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents the database model for users.
// Wallet and points only change through the wallet ledger.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Handle         string    `gorm:"size:64;not null"`
	Email          string    `gorm:"size:255;not null"`
	PasswordHash   string    `gorm:"size:255;not null;default:''"`
	Role           string    `gorm:"size:16;not null;default:'user'"`
	WalletBalance  int64     `gorm:"not null;default:0;check:chk_users_wallet_non_negative,wallet_balance >= 0"` // Balance in cents
	LoyaltyPoints  int64     `gorm:"not null;default:0;check:chk_users_points_non_negative,loyalty_points >= 0"`
	LedgerSequence int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
