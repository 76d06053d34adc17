package topup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/atomic"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/wallet"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository/memory"
	timeadapter "github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/time"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uow      *memory.UnitOfWork
	workflow *Workflow
	user     *entity.User
	admin    *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	uow := memory.NewUnitOfWork(memory.NewStore())
	clock := timeadapter.NewFixedTimeProvider(now)
	log := logger.NewNoopLogger()
	runner := atomic.NewRunner(uow, atomic.RetryConfig{MaxRetries: 3, RetryInterval: time.Millisecond, MaxInterval: time.Millisecond}, log)

	user, err := entity.NewUser("gamer", "gamer@example.com", "hash", entity.RoleUser, now)
	require.NoError(t, err)
	admin, err := entity.NewUser("ops", "ops@example.com", "hash", entity.RoleAdmin, now)
	require.NoError(t, err)
	require.NoError(t, uow.Repositories(ctx).Users().Create(ctx, user))
	require.NoError(t, uow.Repositories(ctx).Users().Create(ctx, admin))

	return &fixture{
		uow:      uow,
		workflow: NewWorkflow(runner, wallet.NewLedger(clock, log), clock, log),
		user:     user,
		admin:    admin,
	}
}

func (f *fixture) submit(t *testing.T, amount string) *entity.TopUpRequest {
	t.Helper()
	req, err := f.workflow.Submit(context.Background(), f.user.ID, amount, entity.Receipt{Reference: "receipts/1.png", MimeType: "image/png"})
	require.NoError(t, err)
	return req
}

func (f *fixture) state(t *testing.T, requestID uuid.UUID) (*entity.TopUpRequest, *entity.User, []entity.LedgerEntry) {
	t.Helper()
	ctx := context.Background()
	repos := f.uow.Repositories(ctx)
	req, err := repos.TopUps().GetByID(ctx, requestID)
	require.NoError(t, err)
	user, err := repos.Users().GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	entries, err := repos.Ledger().AllForUser(ctx, f.user.ID)
	require.NoError(t, err)
	return req, user, entries
}

func TestWorkflow_Submit(t *testing.T) {
	f := newFixture(t)

	t.Run("Pending request", func(t *testing.T) {
		req := f.submit(t, "500.00")
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, entity.TopUpPending, req.Status())
		assert.Equal(t, now, req.SubmittedAt)
	})

	t.Run("Invalid input", func(t *testing.T) {
		testCases := []struct {
			name     string
			userID   uuid.UUID
			amount   string
			receipt  string
			expected error
		}{
			{"Zero amount", f.user.ID, "0.00", "r", errs.ErrValidation},
			{"Negative amount", f.user.ID, "-5", "r", errs.ErrValidation},
			{"Garbage amount", f.user.ID, "five", "r", errs.ErrValidation},
			{"Missing receipt", f.user.ID, "5.00", " ", errs.ErrValidation},
			{"Receipt reference too long", f.user.ID, "5.00", strings.Repeat("r", entity.MaxReceiptReferenceLength+1), errs.ErrValidation},
			{"Unknown user", uuid.New(), "5.00", "r", errs.ErrUserNotFound},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.workflow.Submit(context.Background(), tc.userID, tc.amount, entity.Receipt{Reference: tc.receipt})
				assert.ErrorIs(t, err, tc.expected)
			})
		}
	})
}

func TestWorkflow_Approve(t *testing.T) {
	t.Run("Approve credits the wallet once", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		req := f.submit(t, "500.00")

		// Act
		approval, err := f.workflow.Approve(context.Background(), req.ID, f.admin.ID, "checked")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(50000), approval.NewBalance)
		assert.Equal(t, entity.EntryTopUp, approval.Entry.Type)
		assert.Equal(t, &req.ID, approval.Entry.TopUpRequestID)
		assert.Equal(t, &f.admin.ID, approval.Entry.PerformedBy)

		stored, user, entries := f.state(t, req.ID)
		approved, ok := stored.Review.(entity.Approved)
		require.True(t, ok)
		assert.Equal(t, f.admin.ID, approved.ReviewedBy)
		assert.Equal(t, approval.Entry.ID, approved.LedgerEntryID)
		assert.Equal(t, "checked", approved.Notes)
		assert.Equal(t, int64(50000), user.WalletBalance())
		require.Len(t, entries, 1)
		assert.Equal(t, int64(0), entries[0].WalletBalanceBefore)
		assert.Equal(t, int64(50000), entries[0].WalletBalanceAfter)
	})

	t.Run("Second review is rejected without effect", func(t *testing.T) {
		f := newFixture(t)
		req := f.submit(t, "500.00")
		_, err := f.workflow.Approve(context.Background(), req.ID, f.admin.ID, "")
		require.NoError(t, err)

		_, err = f.workflow.Approve(context.Background(), req.ID, f.admin.ID, "")
		assert.ErrorIs(t, err, errs.ErrAlreadyReviewed)
		_, err = f.workflow.Reject(context.Background(), req.ID, f.admin.ID, "oops")
		assert.ErrorIs(t, err, errs.ErrAlreadyReviewed)

		stored, user, entries := f.state(t, req.ID)
		assert.Equal(t, entity.TopUpApproved, stored.Status())
		assert.Equal(t, int64(50000), user.WalletBalance())
		assert.Len(t, entries, 1)
	})

	t.Run("Only admins review", func(t *testing.T) {
		f := newFixture(t)
		req := f.submit(t, "500.00")

		_, err := f.workflow.Approve(context.Background(), req.ID, f.user.ID, "")
		assert.ErrorIs(t, err, errs.ErrForbidden)
		_, err = f.workflow.Approve(context.Background(), req.ID, uuid.New(), "")
		assert.ErrorIs(t, err, errs.ErrForbidden)

		stored, _, entries := f.state(t, req.ID)
		assert.Equal(t, entity.TopUpPending, stored.Status())
		assert.Empty(t, entries)
	})

	t.Run("Unknown request", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.workflow.Approve(context.Background(), uuid.New(), f.admin.ID, "")
		assert.ErrorIs(t, err, errs.ErrTopUpRequestNotFound)
	})

	t.Run("Concurrent approvals credit once", func(t *testing.T) {
		f := newFixture(t)
		req := f.submit(t, "500.00")

		const reviewers = 5
		results := make(chan error, reviewers)
		var wg sync.WaitGroup
		for i := 0; i < reviewers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.workflow.Approve(context.Background(), req.ID, f.admin.ID, "")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		approved := 0
		for err := range results {
			if err == nil {
				approved++
				continue
			}
			assert.True(t, errors.Is(err, errs.ErrAlreadyReviewed) || errors.Is(err, errs.ErrConflict), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, approved)

		_, user, entries := f.state(t, req.ID)
		assert.Equal(t, int64(50000), user.WalletBalance())
		assert.Len(t, entries, 1)
	})
}

func TestWorkflow_Reject(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, "500.00")

	rejected, err := f.workflow.Reject(context.Background(), req.ID, f.admin.ID, "receipt unreadable")

	require.NoError(t, err)
	review, ok := rejected.Review.(entity.Rejected)
	require.True(t, ok)
	assert.Equal(t, "receipt unreadable", review.Notes)

	_, user, entries := f.state(t, req.ID)
	assert.Zero(t, user.WalletBalance())
	assert.Empty(t, entries)

	_, err = f.workflow.Approve(context.Background(), req.ID, f.admin.ID, "")
	assert.ErrorIs(t, err, errs.ErrAlreadyReviewed)
}

func TestWorkflow_Listings(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, "10.00")
	f.submit(t, "20.00")
	_, err := f.workflow.Approve(context.Background(), first.ID, f.admin.ID, "")
	require.NoError(t, err)

	pending, err := f.workflow.ListPending(context.Background(), persistence.Page{})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mine, err := f.workflow.ListForUser(context.Background(), f.user.ID, persistence.Page{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	history, err := f.workflow.History(context.Background(), persistence.HistoryFilter{AdminNameContains: "OP"})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ops", history[0].ReviewerHandle)
	assert.Equal(t, "gamer", history[0].UserHandle)

	from, to := now, now
	_, err = f.workflow.History(context.Background(), persistence.HistoryFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, errs.ErrValidation)
}
