package dto

import (
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

// SubmitTopUpRequest asks for a wallet credit against an uploaded receipt
type SubmitTopUpRequest struct {
	Amount           string `json:"amount" binding:"required"`
	ReceiptReference string `json:"receiptReference" binding:"required"`
	ReceiptMimeType  string `json:"receiptMimeType"`
}

// ReviewRequest carries the reviewer's notes
type ReviewRequest struct {
	Notes string `json:"notes"`
}

// TopUpResponse represents a top-up request and its review state
type TopUpResponse struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	Amount           string     `json:"amount"`
	ReceiptReference string     `json:"receiptReference"`
	Status           string     `json:"status"`
	SubmittedAt      time.Time  `json:"submittedAt"`
	ReviewedBy       *string    `json:"reviewedBy,omitempty"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
	LedgerEntryID    *string    `json:"ledgerEntryId,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

// TopUpHistoryItem is a top-up request with requester and reviewer names
type TopUpHistoryItem struct {
	TopUpResponse
	UserHandle     string `json:"userHandle"`
	UserEmail      string `json:"userEmail"`
	ReviewerHandle string `json:"reviewerHandle,omitempty"`
}

// ApprovalResponse is an approved request and the resulting balance
type ApprovalResponse struct {
	Request     TopUpResponse       `json:"request"`
	LedgerEntry LedgerEntryResponse `json:"ledgerEntry"`
	NewBalance  string              `json:"newBalance"`
}

// NewTopUpResponse converts a top-up request
func NewTopUpResponse(r *entity.TopUpRequest) TopUpResponse {
	resp := TopUpResponse{
		ID:               r.ID.String(),
		UserID:           r.UserID.String(),
		Amount:           entity.FormatAmount(r.Amount),
		ReceiptReference: r.Receipt.Reference,
		Status:           string(r.Status()),
		SubmittedAt:      r.SubmittedAt.UTC(),
	}

	switch review := r.Review.(type) {
	case entity.Approved:
		reviewer := review.ReviewedBy.String()
		entryID := review.LedgerEntryID.String()
		at := review.ReviewedAt.UTC()
		resp.ReviewedBy, resp.LedgerEntryID, resp.ReviewedAt = &reviewer, &entryID, &at
		resp.Notes = review.Notes
	case entity.Rejected:
		reviewer := review.ReviewedBy.String()
		at := review.ReviewedAt.UTC()
		resp.ReviewedBy, resp.ReviewedAt = &reviewer, &at
		resp.Notes = review.Notes
	}
	return resp
}

// NewTopUpHistoryItem converts a history view
func NewTopUpHistoryItem(v *persistence.TopUpView) TopUpHistoryItem {
	return TopUpHistoryItem{
		TopUpResponse:  NewTopUpResponse(&v.Request),
		UserHandle:     v.UserHandle,
		UserEmail:      v.UserEmail,
		ReviewerHandle: v.ReviewerHandle,
	}
}
