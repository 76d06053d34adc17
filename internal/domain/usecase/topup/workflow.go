package topup

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
)

// Approval is an approved request together with the credit it produced
type Approval struct {
	Request    *entity.TopUpRequest
	Entry      *entity.LedgerEntry
	NewBalance int64
}

// Workflow drives top-up requests from submission through review.
// pending -> approved | rejected; both outcomes are terminal.
type Workflow struct {
	runner *atomic.Runner
	wallet *wallet.Ledger
	clock  coreport.TimeProvider
	logger coreport.Logger
}

// NewWorkflow creates a new top-up workflow
func NewWorkflow(runner *atomic.Runner, walletLedger *wallet.Ledger, clock coreport.TimeProvider, logger coreport.Logger) *Workflow {
	return &Workflow{runner: runner, wallet: walletLedger, clock: clock, logger: logger}
}

// Submit records a pending request. amount is a decimal string such as "500.00".
//
// Possible errors:
// - ErrValidation: If amount is not a positive amount or the receipt reference is empty
// - ErrUserNotFound: If the user doesn't exist
func (w *Workflow) Submit(ctx context.Context, userID uuid.UUID, amount string, receipt entity.Receipt) (*entity.TopUpRequest, error) {
	cents, err := entity.ParsePositiveAmount(amount)
	if err != nil {
		return nil, err
	}

	request, err := atomic.Run(ctx, w.runner, "submit_topup", func(ctx context.Context, repos persistence.Repositories) (*entity.TopUpRequest, error) {
		if _, err := repos.Users().GetByID(ctx, userID); err != nil {
			return nil, err
		}
		request, err := entity.NewTopUpRequest(userID, cents, receipt, w.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := repos.TopUps().Create(ctx, request); err != nil {
			return nil, err
		}
		return request, nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("Top-up request submitted", map[string]any{
		"request_id": request.ID.String(),
		"user_id":    userID.String(),
		"amount":     entity.FormatAmount(cents),
	})
	return request, nil
}

// Approve credits the requester and marks the request approved in one unit of work
//
// Possible errors:
// - ErrTopUpRequestNotFound: If the request doesn't exist
// - ErrForbidden: If adminID is not an admin
// - ErrAlreadyReviewed: If the request is no longer pending
func (w *Workflow) Approve(ctx context.Context, requestID, adminID uuid.UUID, notes string) (*Approval, error) {
	approval, err := atomic.Run(ctx, w.runner, "approve_topup", func(ctx context.Context, repos persistence.Repositories) (*Approval, error) {
		request, err := w.loadPending(ctx, repos, requestID, adminID)
		if err != nil {
			return nil, err
		}

		movement, err := w.wallet.Credit(ctx, repos, request.UserID, request.Amount, wallet.EntryOptions{
			Type:           entity.EntryTopUp,
			TopUpRequestID: &request.ID,
			PerformedBy:    &adminID,
			Description:    request.Receipt.Reference,
		})
		if err != nil {
			return nil, err
		}

		if err := request.Approve(adminID, movement.Entry.ID, notes, w.clock.Now()); err != nil {
			return nil, err
		}
		if err := repos.TopUps().SaveReview(ctx, request); err != nil {
			return nil, err
		}
		return &Approval{Request: request, Entry: movement.Entry, NewBalance: movement.User.WalletBalance()}, nil
	})
	if err != nil {
		w.logReviewFailure("approve", requestID, adminID, err)
		return nil, err
	}

	w.logger.Info("Top-up request approved", map[string]any{
		"request_id":  requestID.String(),
		"admin_id":    adminID.String(),
		"user_id":     approval.Request.UserID.String(),
		"amount":      entity.FormatAmount(approval.Request.Amount),
		"entry_id":    approval.Entry.ID.String(),
		"new_balance": entity.FormatAmount(approval.NewBalance),
	})
	return approval, nil
}

// Reject marks the request rejected. The wallet is not touched.
//
// Possible errors:
// - ErrTopUpRequestNotFound: If the request doesn't exist
// - ErrForbidden: If adminID is not an admin
// - ErrAlreadyReviewed: If the request is no longer pending
func (w *Workflow) Reject(ctx context.Context, requestID, adminID uuid.UUID, notes string) (*entity.TopUpRequest, error) {
	request, err := atomic.Run(ctx, w.runner, "reject_topup", func(ctx context.Context, repos persistence.Repositories) (*entity.TopUpRequest, error) {
		request, err := w.loadPending(ctx, repos, requestID, adminID)
		if err != nil {
			return nil, err
		}
		if err := request.Reject(adminID, notes, w.clock.Now()); err != nil {
			return nil, err
		}
		if err := repos.TopUps().SaveReview(ctx, request); err != nil {
			return nil, err
		}
		return request, nil
	})
	if err != nil {
		w.logReviewFailure("reject", requestID, adminID, err)
		return nil, err
	}

	w.logger.Info("Top-up request rejected", map[string]any{
		"request_id": requestID.String(),
		"admin_id":   adminID.String(),
	})
	return request, nil
}

// loadPending locks the request and checks the reviewer before any write
func (w *Workflow) loadPending(ctx context.Context, repos persistence.Repositories, requestID, adminID uuid.UUID) (*entity.TopUpRequest, error) {
	admin, err := repos.Users().GetByID(ctx, adminID)
	if errors.Is(err, errs.ErrUserNotFound) {
		return nil, errs.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsAdmin() {
		return nil, errs.ErrForbidden
	}

	request, err := repos.TopUps().GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if st := request.Status(); st != entity.TopUpPending {
		return nil, errs.NewAlreadyReviewedError(request.ID.String(), string(st))
	}
	return request, nil
}

func (w *Workflow) logReviewFailure(action string, requestID, adminID uuid.UUID, err error) {
	fields := errs.LogFields(err)
	fields["action"] = action
	fields["request_id"] = requestID.String()
	fields["admin_id"] = adminID.String()
	w.logger.Warn("Top-up review failed", fields)
}

// ListPending returns pending requests, oldest first
func (w *Workflow) ListPending(ctx context.Context, page persistence.Page) ([]entity.TopUpRequest, error) {
	return w.runner.Repositories(ctx).TopUps().ListByStatus(ctx, entity.TopUpPending, page.Normalize())
}

// ListForUser returns the user's requests, newest first
func (w *Workflow) ListForUser(ctx context.Context, userID uuid.UUID, page persistence.Page) ([]entity.TopUpRequest, error) {
	return w.runner.Repositories(ctx).TopUps().ListByUser(ctx, userID, page.Normalize())
}

// History returns reviewed and pending requests matching the filter
//
// Possible errors:
// - ErrValidation: If the date range is inverted
func (w *Workflow) History(ctx context.Context, filter persistence.HistoryFilter) ([]persistence.TopUpView, error) {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, errs.Validation("history range start must be before its end")
	}
	filter.Page = filter.Page.Normalize()
	return w.runner.Repositories(ctx).TopUps().History(ctx, filter)
}
