package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// TopUpStatus is the flat status derived from a request's review state
type TopUpStatus string

const (
	TopUpPending  TopUpStatus = "pending"
	TopUpApproved TopUpStatus = "approved"
	TopUpRejected TopUpStatus = "rejected"
)

// ParseTopUpStatus parses a status filter value
func ParseTopUpStatus(s string) (TopUpStatus, error) {
	switch st := TopUpStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case TopUpPending, TopUpApproved, TopUpRejected:
		return st, nil
	}
	return "", errs.Validation("unknown top-up status %q", s)
}

// Receipt is an opaque reference to an uploaded payment receipt
type Receipt struct {
	Reference string
	MimeType  string
}

// ReviewState is the review outcome of a top-up request: Pending, Approved or Rejected
type ReviewState interface {
	Status() TopUpStatus
	reviewState()
}

// Pending is the initial state
type Pending struct{}

// Approved records who credited the wallet and the resulting ledger entry
type Approved struct {
	ReviewedBy    uuid.UUID
	ReviewedAt    time.Time
	LedgerEntryID uuid.UUID
	Notes         string
}

// Rejected records who declined the request
type Rejected struct {
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
	Notes      string
}

func (Pending) Status() TopUpStatus  { return TopUpPending }
func (Approved) Status() TopUpStatus { return TopUpApproved }
func (Rejected) Status() TopUpStatus { return TopUpRejected }

func (Pending) reviewState()  {}
func (Approved) reviewState() {}
func (Rejected) reviewState() {}

// TopUpRequest is a user's claim of an external payment awaiting admin review
type TopUpRequest struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      int64
	Receipt     Receipt
	SubmittedAt time.Time
	Review      ReviewState
}

// NewTopUpRequest creates a pending request
func NewTopUpRequest(userID uuid.UUID, amount int64, receipt Receipt, now time.Time) (*TopUpRequest, error) {
	if amount <= 0 {
		return nil, errs.Validation("amount must be positive")
	}
	receipt.Reference = strings.TrimSpace(receipt.Reference)
	if receipt.Reference == "" {
		return nil, errs.Validation("receipt reference is required")
	}
	if err := CheckLength("receipt reference", receipt.Reference, MaxReceiptReferenceLength); err != nil {
		return nil, err
	}
	if err := CheckLength("receipt mime type", receipt.MimeType, MaxReceiptMimeTypeLength); err != nil {
		return nil, err
	}
	return &TopUpRequest{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Receipt:     receipt,
		SubmittedAt: now,
		Review:      Pending{},
	}, nil
}

// Status returns the flat status of the request
func (r *TopUpRequest) Status() TopUpStatus {
	if r.Review == nil {
		return TopUpPending
	}
	return r.Review.Status()
}

// Approve moves a pending request to Approved
func (r *TopUpRequest) Approve(adminID, ledgerEntryID uuid.UUID, notes string, now time.Time) error {
	if err := r.ensurePending(); err != nil {
		return err
	}
	r.Review = Approved{ReviewedBy: adminID, ReviewedAt: now, LedgerEntryID: ledgerEntryID, Notes: notes}
	return nil
}

// Reject moves a pending request to Rejected
func (r *TopUpRequest) Reject(adminID uuid.UUID, notes string, now time.Time) error {
	if err := r.ensurePending(); err != nil {
		return err
	}
	r.Review = Rejected{ReviewedBy: adminID, ReviewedAt: now, Notes: notes}
	return nil
}

func (r *TopUpRequest) ensurePending() error {
	if st := r.Status(); st != TopUpPending {
		return errs.NewAlreadyReviewedError(r.ID.String(), string(st))
	}
	return nil
}
