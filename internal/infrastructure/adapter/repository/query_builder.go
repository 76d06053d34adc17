package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

// Every filter value reaches the database as a bind parameter; only fixed SQL fragments are concatenated.

// historyRow is a top-up request joined with the handles of its requester and reviewer
type historyRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	Amount           int64
	ReceiptReference string
	ReceiptMimeType  string
	Status           string
	SubmittedAt      time.Time
	ReviewedBy       *uuid.UUID
	ReviewedAt       *time.Time
	LedgerEntryID    *uuid.UUID
	ReviewNotes      string
	UserHandle       string
	UserEmail        string
	ReviewerHandle   *string
}

func (row *historyRow) request() model.TopUpRequest {
	return model.TopUpRequest{
		ID:               row.ID,
		UserID:           row.UserID,
		Amount:           row.Amount,
		ReceiptReference: row.ReceiptReference,
		ReceiptMimeType:  row.ReceiptMimeType,
		Status:           row.Status,
		SubmittedAt:      row.SubmittedAt,
		ReviewedBy:       row.ReviewedBy,
		ReviewedAt:       row.ReviewedAt,
		LedgerEntryID:    row.LedgerEntryID,
		ReviewNotes:      row.ReviewNotes,
	}
}

const historyColumns = "t.id, t.user_id, t.amount, t.receipt_reference, t.receipt_mime_type, t.status, t.submitted_at, " +
	"t.reviewed_by, t.reviewed_at, t.ledger_entry_id, t.review_notes, " +
	"u.handle AS user_handle, u.email AS user_email, r.handle AS reviewer_handle"

// buildHistoryQuery selects top-up requests matching the filter, newest first
func buildHistoryQuery(db *gorm.DB, filter persistence.HistoryFilter) *gorm.DB {
	query := db.Table("topup_requests AS t").
		Select(historyColumns).
		Joins("JOIN users u ON u.id = t.user_id").
		Joins("LEFT JOIN users r ON r.id = t.reviewed_by")

	if filter.From != nil {
		query = query.Where("t.submitted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("t.submitted_at < ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("t.status = ?", string(*filter.Status))
	}
	if filter.AdminNameContains != "" {
		query = query.Where("r.handle ILIKE ?", containsPattern(filter.AdminNameContains))
	}
	if filter.UserSearch != "" {
		pattern := containsPattern(filter.UserSearch)
		query = query.Where("(u.handle ILIKE ? OR u.email ILIKE ?)", pattern, pattern)
	}

	page := filter.Page.Normalize()
	return query.
		Order("t.submitted_at DESC").
		Limit(page.Limit).
		Offset(page.Offset)
}

// buildLedgerQuery selects one user's ledger entries matching the filter, newest first
func buildLedgerQuery(db *gorm.DB, userID uuid.UUID, filter persistence.LedgerFilter) *gorm.DB {
	query := db.Model(&model.LedgerEntry{}).Where("user_id = ?", userID)

	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp < ?", *filter.To)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}

	page := filter.Page.Normalize()
	return query.
		Order("sequence DESC").
		Limit(page.Limit).
		Offset(page.Offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns free text into an ILIKE substring pattern with wildcards escaped
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
