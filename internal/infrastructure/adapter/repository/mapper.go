package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

func userToModel(u *entity.User) model.User {
	return model.User{
		ID:             u.ID,
		Handle:         u.Handle,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		WalletBalance:  u.WalletBalance(),
		LoyaltyPoints:  u.LoyaltyPoints(),
		LedgerSequence: u.LedgerSequence,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func userToEntity(m *model.User) *entity.User {
	return entity.RestoreUser(entity.User{
		ID:             m.ID,
		Handle:         m.Handle,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           entity.Role(m.Role),
		LedgerSequence: m.LedgerSequence,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}, m.WalletBalance, m.LoyaltyPoints)
}

// daysToMask packs weekdays into a bit set, bit n standing for time.Weekday(n)
func daysToMask(days []time.Weekday) int16 {
	var mask int16
	for _, d := range days {
		mask |= 1 << uint(d)
	}
	return mask
}

func maskToDays(mask int16) []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if mask&(1<<uint(d)) != 0 {
			days = append(days, d)
		}
	}
	return days
}

func overridesToModel(screen *entity.Screen) []model.PriceOverride {
	overrides := make([]model.PriceOverride, 0, len(screen.Overrides))
	for i, o := range screen.Overrides {
		overrides = append(overrides, model.PriceOverride{
			ScreenID:    screen.ID,
			Position:    i,
			DaysMask:    daysToMask(o.DaysOfWeek),
			StartMinute: o.StartMinute,
			EndMinute:   o.EndMinute,
			Price:       o.Price,
		})
	}
	return overrides
}

func screenToModel(s *entity.Screen) model.Screen {
	return model.Screen{
		ID:        s.ID,
		Name:      s.Name,
		BasePrice: s.BasePrice,
		IsActive:  s.IsActive,
		Overrides: overridesToModel(s),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// screenToEntity expects Overrides already ordered by position
func screenToEntity(m *model.Screen) *entity.Screen {
	screen := &entity.Screen{
		ID:        m.ID,
		Name:      m.Name,
		BasePrice: m.BasePrice,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	for _, o := range m.Overrides {
		screen.Overrides = append(screen.Overrides, entity.PriceOverride{
			DaysOfWeek:  maskToDays(o.DaysMask),
			StartMinute: o.StartMinute,
			EndMinute:   o.EndMinute,
			Price:       o.Price,
		})
	}
	return screen
}

func bookingToModel(b *entity.Booking) model.Booking {
	return model.Booking{
		ID:                b.ID,
		UserID:            b.UserID,
		ScreenID:          b.ScreenID,
		SlotID:            b.SlotID,
		StartTime:         b.StartTime,
		EndTime:           b.EndTime,
		Status:            string(b.Status),
		PricePaid:         b.PricePaid,
		GamerTagAtBooking: b.GamerTagAtBooking,
		CreatedAt:         b.CreatedAt,
	}
}

func bookingToEntity(m *model.Booking) entity.Booking {
	return entity.Booking{
		ID:                m.ID,
		UserID:            m.UserID,
		ScreenID:          m.ScreenID,
		SlotID:            m.SlotID,
		StartTime:         m.StartTime.UTC(),
		EndTime:           m.EndTime.UTC(),
		Status:            entity.BookingStatus(m.Status),
		PricePaid:         m.PricePaid,
		GamerTagAtBooking: m.GamerTagAtBooking,
		CreatedAt:         m.CreatedAt.UTC(),
	}
}

func ledgerEntryToModel(e *entity.LedgerEntry) model.LedgerEntry {
	return model.LedgerEntry{
		ID:                  e.ID,
		UserID:              e.UserID,
		Sequence:            e.Sequence,
		Type:                string(e.Type),
		Amount:              e.Amount,
		WalletBalanceBefore: e.WalletBalanceBefore,
		WalletBalanceAfter:  e.WalletBalanceAfter,
		LoyaltyPointsBefore: e.LoyaltyPointsBefore,
		LoyaltyPointsAfter:  e.LoyaltyPointsAfter,
		BookingID:           e.BookingID,
		TopUpRequestID:      e.TopUpRequestID,
		PerformedBy:         e.PerformedBy,
		Description:         e.Description,
		Timestamp:           e.Timestamp,
	}
}

func ledgerEntryToEntity(m *model.LedgerEntry) entity.LedgerEntry {
	return entity.LedgerEntry{
		ID:                  m.ID,
		UserID:              m.UserID,
		Sequence:            m.Sequence,
		Type:                entity.EntryType(m.Type),
		Amount:              m.Amount,
		WalletBalanceBefore: m.WalletBalanceBefore,
		WalletBalanceAfter:  m.WalletBalanceAfter,
		LoyaltyPointsBefore: m.LoyaltyPointsBefore,
		LoyaltyPointsAfter:  m.LoyaltyPointsAfter,
		BookingID:           m.BookingID,
		TopUpRequestID:      m.TopUpRequestID,
		PerformedBy:         m.PerformedBy,
		Description:         m.Description,
		Timestamp:           m.Timestamp.UTC(),
	}
}

func topUpToModel(r *entity.TopUpRequest) model.TopUpRequest {
	m := model.TopUpRequest{
		ID:               r.ID,
		UserID:           r.UserID,
		Amount:           r.Amount,
		ReceiptReference: r.Receipt.Reference,
		ReceiptMimeType:  r.Receipt.MimeType,
		Status:           string(r.Status()),
		SubmittedAt:      r.SubmittedAt,
	}
	switch review := r.Review.(type) {
	case entity.Approved:
		m.ReviewedBy = &review.ReviewedBy
		m.ReviewedAt = &review.ReviewedAt
		m.LedgerEntryID = &review.LedgerEntryID
		m.ReviewNotes = review.Notes
	case entity.Rejected:
		m.ReviewedBy = &review.ReviewedBy
		m.ReviewedAt = &review.ReviewedAt
		m.ReviewNotes = review.Notes
	}
	return m
}

// topUpToEntity rebuilds the review variant from the flat status and review columns
func topUpToEntity(m *model.TopUpRequest) entity.TopUpRequest {
	r := entity.TopUpRequest{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Receipt:     entity.Receipt{Reference: m.ReceiptReference, MimeType: m.ReceiptMimeType},
		SubmittedAt: m.SubmittedAt.UTC(),
		Review:      entity.Pending{},
	}

	var reviewer, entryID uuid.UUID
	var reviewedAt time.Time
	if m.ReviewedBy != nil {
		reviewer = *m.ReviewedBy
	}
	if m.LedgerEntryID != nil {
		entryID = *m.LedgerEntryID
	}
	if m.ReviewedAt != nil {
		reviewedAt = m.ReviewedAt.UTC()
	}

	switch entity.TopUpStatus(m.Status) {
	case entity.TopUpApproved:
		r.Review = entity.Approved{ReviewedBy: reviewer, ReviewedAt: reviewedAt, LedgerEntryID: entryID, Notes: m.ReviewNotes}
	case entity.TopUpRejected:
		r.Review = entity.Rejected{ReviewedBy: reviewer, ReviewedAt: reviewedAt, Notes: m.ReviewNotes}
	}
	return r
}
