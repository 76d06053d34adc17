package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

// LedgerReport is the outcome of auditing one user's ledger
type LedgerReport struct {
	UserID        uuid.UUID
	Entries       int
	WalletBalance int64
	LoyaltyPoints int64
	Violations    []entity.LedgerViolation
}

// Consistent reports whether the ledger fully explains the balances
func (r *LedgerReport) Consistent() bool {
	return len(r.Violations) == 0
}

// VerifyLedger replays the user's ledger in sequence order against the stored balances.
// User and entries are read in one unit of work so the report is a consistent snapshot.
func (u *UseCase) VerifyLedger(ctx context.Context, userID uuid.UUID) (*LedgerReport, error) {
	var report *LedgerReport
	err := u.runner.Do(ctx, "verify_ledger", func(ctx context.Context, repos persistence.Repositories) error {
		user, err := repos.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		entries, err := repos.Ledger().AllForUser(ctx, userID)
		if err != nil {
			return err
		}

		report = &LedgerReport{
			UserID:        userID,
			Entries:       len(entries),
			WalletBalance: user.WalletBalance(),
			LoyaltyPoints: user.LoyaltyPoints(),
			Violations:    entity.VerifyLedger(entries, user.WalletBalance(), user.LoyaltyPoints()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Consistent() {
		u.logger.Error("Ledger does not reconcile", map[string]any{
			"user_id":    userID.String(),
			"entries":    report.Entries,
			"violations": len(report.Violations),
			"first":      report.Violations[0].Reason,
		})
	}
	return report, nil
}
