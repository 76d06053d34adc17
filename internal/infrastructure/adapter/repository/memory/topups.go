package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

type topUpRepository struct {
	*repositories
}

func (r *topUpRepository) Create(ctx context.Context, request *entity.TopUpRequest) error {
	return r.run(func(t *tx) error {
		if _, ok := t.data.users[request.UserID]; !ok {
			return errs.ErrUserNotFound
		}
		return r.put(t, request)
	})
}

func (r *topUpRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TopUpRequest, error) {
	var request *entity.TopUpRequest
	err := r.run(func(t *tx) error {
		t.read(topUpKey(id))
		req, ok := t.data.topups[id]
		if !ok {
			return errs.ErrTopUpRequestNotFound
		}
		request = &req
		return nil
	})
	return request, err
}

// GetByIDForUpdate reads the request. Concurrent reviewers are detected at commit.
func (r *topUpRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.TopUpRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *topUpRepository) SaveReview(ctx context.Context, request *entity.TopUpRequest) error {
	return r.run(func(t *tx) error {
		t.read(topUpKey(request.ID))
		if _, ok := t.data.topups[request.ID]; !ok {
			return errs.ErrTopUpRequestNotFound
		}
		return r.put(t, request)
	})
}

func (r *topUpRepository) put(t *tx, request *entity.TopUpRequest) error {
	id := request.ID
	t.data.topups[id] = *request
	t.write(topUpKey(id), func(dst *state) { dst.topups[id] = t.data.topups[id] })
	t.write(tableKey("topups"), nil)
	return nil
}

func (r *topUpRepository) ListByStatus(ctx context.Context, status entity.TopUpStatus, page persistence.Page) ([]entity.TopUpRequest, error) {
	requests, err := r.filter(func(req entity.TopUpRequest) bool { return req.Status() == status })
	sort.Slice(requests, func(i, j int) bool { return requests[i].SubmittedAt.Before(requests[j].SubmittedAt) })
	return paginate(requests, page), err
}

func (r *topUpRepository) ListByUser(ctx context.Context, userID uuid.UUID, page persistence.Page) ([]entity.TopUpRequest, error) {
	requests, err := r.filter(func(req entity.TopUpRequest) bool { return req.UserID == userID })
	sort.Slice(requests, func(i, j int) bool { return requests[i].SubmittedAt.After(requests[j].SubmittedAt) })
	return paginate(requests, page), err
}

func (r *topUpRepository) filter(keep func(entity.TopUpRequest) bool) ([]entity.TopUpRequest, error) {
	var requests []entity.TopUpRequest
	err := r.run(func(t *tx) error {
		t.read(tableKey("topups"))
		for _, req := range t.data.topups {
			if keep(req) {
				requests = append(requests, req)
			}
		}
		return nil
	})
	return requests, err
}

func (r *topUpRepository) History(ctx context.Context, filter persistence.HistoryFilter) ([]persistence.TopUpView, error) {
	var views []persistence.TopUpView
	err := r.run(func(t *tx) error {
		t.read(tableKey("topups"), tableKey("users"))
		for _, req := range t.data.topups {
			if filter.From != nil && req.SubmittedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && !req.SubmittedAt.Before(*filter.To) {
				continue
			}
			if filter.Status != nil && req.Status() != *filter.Status {
				continue
			}

			user := t.data.users[req.UserID]
			view := persistence.TopUpView{Request: req, UserHandle: user.Handle, UserEmail: user.Email}
			if reviewer, ok := reviewerOf(req); ok {
				view.ReviewerHandle = t.data.users[reviewer].Handle
			}

			if filter.UserSearch != "" && !containsFold(view.UserHandle, filter.UserSearch) && !containsFold(view.UserEmail, filter.UserSearch) {
				continue
			}
			if filter.AdminNameContains != "" && !containsFold(view.ReviewerHandle, filter.AdminNameContains) {
				continue
			}
			views = append(views, view)
		}
		return nil
	})
	sort.Slice(views, func(i, j int) bool { return views[i].Request.SubmittedAt.After(views[j].Request.SubmittedAt) })
	return paginate(views, filter.Page), err
}

func reviewerOf(req entity.TopUpRequest) (uuid.UUID, bool) {
	switch review := req.Review.(type) {
	case entity.Approved:
		return review.ReviewedBy, true
	case entity.Rejected:
		return review.ReviewedBy, true
	}
	return uuid.Nil, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
