package dto

import (
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/account"
)

// WalletResponse represents a user's balance and loyalty points
type WalletResponse struct {
	UserID        string `json:"userId"`
	Handle        string `json:"handle"`
	Balance       string `json:"balance"`
	LoyaltyPoints int64  `json:"loyaltyPoints"`
}

// LedgerEntryResponse represents one ledger entry
type LedgerEntryResponse struct {
	ID                  string    `json:"id"`
	Sequence            int64     `json:"sequence"`
	Type                string    `json:"type"`
	Amount              string    `json:"amount"`
	WalletBalanceBefore string    `json:"walletBalanceBefore"`
	WalletBalanceAfter  string    `json:"walletBalanceAfter"`
	LoyaltyPointsBefore int64     `json:"loyaltyPointsBefore"`
	LoyaltyPointsAfter  int64     `json:"loyaltyPointsAfter"`
	BookingID           *string   `json:"bookingId,omitempty"`
	TopUpRequestID      *string   `json:"topUpRequestId,omitempty"`
	PerformedBy         *string   `json:"performedBy,omitempty"`
	Description         string    `json:"description"`
	Timestamp           time.Time `json:"timestamp"`
}

// AdjustmentRequest is a signed manual wallet correction
type AdjustmentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Note   string `json:"note" binding:"required"`
}

// AdjustmentResponse is the entry an adjustment produced
type AdjustmentResponse struct {
	LedgerEntry LedgerEntryResponse `json:"ledgerEntry"`
	NewBalance  string              `json:"newBalance"`
}

// LedgerViolation describes one broken ledger invariant
type LedgerViolation struct {
	Sequence int64  `json:"sequence"`
	Reason   string `json:"reason"`
}

// LedgerReportResponse is the outcome of a ledger audit
type LedgerReportResponse struct {
	UserID        string            `json:"userId"`
	Consistent    bool              `json:"consistent"`
	Entries       int               `json:"entries"`
	Balance       string            `json:"balance"`
	LoyaltyPoints int64             `json:"loyaltyPoints"`
	Violations    []LedgerViolation `json:"violations"`
}

// NewWalletResponse converts a wallet summary
func NewWalletResponse(s *account.WalletSummary) WalletResponse {
	return WalletResponse{
		UserID:        s.UserID.String(),
		Handle:        s.Handle,
		Balance:       entity.FormatAmount(s.Balance),
		LoyaltyPoints: s.LoyaltyPoints,
	}
}

// NewLedgerEntryResponse converts a ledger entry
func NewLedgerEntryResponse(e *entity.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:                  e.ID.String(),
		Sequence:            e.Sequence,
		Type:                string(e.Type),
		Amount:              entity.FormatAmount(e.Amount),
		WalletBalanceBefore: entity.FormatAmount(e.WalletBalanceBefore),
		WalletBalanceAfter:  entity.FormatAmount(e.WalletBalanceAfter),
		LoyaltyPointsBefore: e.LoyaltyPointsBefore,
		LoyaltyPointsAfter:  e.LoyaltyPointsAfter,
		Description:         e.Description,
		Timestamp:           e.Timestamp.UTC(),
	}
	if e.BookingID != nil {
		id := e.BookingID.String()
		resp.BookingID = &id
	}
	if e.TopUpRequestID != nil {
		id := e.TopUpRequestID.String()
		resp.TopUpRequestID = &id
	}
	if e.PerformedBy != nil {
		id := e.PerformedBy.String()
		resp.PerformedBy = &id
	}
	return resp
}

// NewLedgerReportResponse converts an audit report
func NewLedgerReportResponse(r *account.LedgerReport) LedgerReportResponse {
	violations := make([]LedgerViolation, 0, len(r.Violations))
	for _, v := range r.Violations {
		violations = append(violations, LedgerViolation{Sequence: v.Sequence, Reason: v.Reason})
	}
	return LedgerReportResponse{
		UserID:        r.UserID.String(),
		Consistent:    r.Consistent(),
		Entries:       r.Entries,
		Balance:       entity.FormatAmount(r.WalletBalance),
		LoyaltyPoints: r.LoyaltyPoints,
		Violations:    violations,
	}
}
