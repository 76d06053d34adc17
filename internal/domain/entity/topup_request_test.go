package entity

import (
	"strings"
	"testing"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTopUpRequest(t *testing.T) {
	userID := uuid.New()

	r, err := NewTopUpRequest(userID, 50000, Receipt{Reference: " receipts/42.png ", MimeType: "image/png"}, now)
	require.NoError(t, err)
	assert.Equal(t, TopUpPending, r.Status())
	assert.Equal(t, Pending{}, r.Review)
	assert.Equal(t, "receipts/42.png", r.Receipt.Reference)

	_, err = NewTopUpRequest(userID, 0, Receipt{Reference: "r"}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewTopUpRequest(userID, 100, Receipt{}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewTopUpRequest(userID, 100, Receipt{Reference: strings.Repeat("r", MaxReceiptReferenceLength+1)}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewTopUpRequest(userID, 100, Receipt{Reference: "r", MimeType: strings.Repeat("m", MaxReceiptMimeTypeLength+1)}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewTopUpRequest(userID, 100, Receipt{Reference: strings.Repeat("r", MaxReceiptReferenceLength)}, now)
	assert.NoError(t, err)
}

func TestTopUpReview(t *testing.T) {
	adminID := uuid.New()
	entryID := uuid.New()

	newRequest := func(t *testing.T) *TopUpRequest {
		r, err := NewTopUpRequest(uuid.New(), 50000, Receipt{Reference: "r"}, now)
		require.NoError(t, err)
		return r
	}

	t.Run("Approve records reviewer and ledger entry", func(t *testing.T) {
		r := newRequest(t)

		require.NoError(t, r.Approve(adminID, entryID, "ok", now))

		approved, ok := r.Review.(Approved)
		require.True(t, ok)
		assert.Equal(t, adminID, approved.ReviewedBy)
		assert.Equal(t, entryID, approved.LedgerEntryID)
		assert.Equal(t, TopUpApproved, r.Status())
	})

	t.Run("Reject after approve fails", func(t *testing.T) {
		r := newRequest(t)
		require.NoError(t, r.Approve(adminID, entryID, "", now))

		err := r.Reject(adminID, "duplicate", now)

		assert.ErrorIs(t, err, errs.ErrAlreadyReviewed)
		assert.Equal(t, TopUpApproved, r.Status())
	})

	t.Run("Second reject fails", func(t *testing.T) {
		r := newRequest(t)
		require.NoError(t, r.Reject(adminID, "blurry receipt", now))

		err := r.Reject(adminID, "again", now)

		assert.ErrorIs(t, err, errs.ErrAlreadyReviewed)
		rejected := r.Review.(Rejected)
		assert.Equal(t, "blurry receipt", rejected.Notes)
	})
}

func TestParseTopUpStatus(t *testing.T) {
	st, err := ParseTopUpStatus(" Approved ")
	require.NoError(t, err)
	assert.Equal(t, TopUpApproved, st)

	_, err = ParseTopUpStatus("done")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
