package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/model"
)

// TopUpRepository implements persistence.TopUpRepository using GORM
type TopUpRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTopUpRepository creates a new TopUpRepository instance
func NewTopUpRepository(db *gorm.DB, logger coreport.Logger) *TopUpRepository {
	return &TopUpRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Create stores a pending request
func (r *TopUpRepository) Create(ctx context.Context, request *entity.TopUpRequest) error {
	requestModel := topUpToModel(request)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&requestModel).Error; err != nil {
		return r.errorClassifier.MapError(err, errs.ErrTopUpRequestNotFound)
	}
	return nil
}

// GetByID retrieves a request
func (r *TopUpRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.TopUpRequest, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetByIDForUpdate retrieves a request with SELECT ... FOR UPDATE
func (r *TopUpRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.TopUpRequest, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *TopUpRepository) get(db *gorm.DB, id uuid.UUID) (*entity.TopUpRequest, error) {
	var requestModel model.TopUpRequest
	if err := db.First(&requestModel, "id = ?", id).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTopUpRequestNotFound)
	}
	request := topUpToEntity(&requestModel)
	return &request, nil
}

// SaveReview writes the review outcome. Only a pending row may be reviewed.
func (r *TopUpRepository) SaveReview(ctx context.Context, request *entity.TopUpRequest) error {
	requestModel := topUpToModel(request)
	result := r.db.WithContext(ctx).Model(&model.TopUpRequest{}).
		Where("id = ? AND status = ?", request.ID, string(entity.TopUpPending)).
		Updates(map[string]any{
			"status":          requestModel.Status,
			"reviewed_by":     requestModel.ReviewedBy,
			"reviewed_at":     requestModel.ReviewedAt,
			"ledger_entry_id": requestModel.LedgerEntryID,
			"review_notes":    requestModel.ReviewNotes,
		})
	if result.Error != nil {
		return r.errorClassifier.MapError(result.Error, errs.ErrTopUpRequestNotFound)
	}
	if result.RowsAffected == 0 {
		return errs.NewAlreadyReviewedError(request.ID.String(), "reviewed")
	}
	return nil
}

// ListByStatus returns requests in the given state, oldest first
func (r *TopUpRepository) ListByStatus(ctx context.Context, status entity.TopUpStatus, page persistence.Page) ([]entity.TopUpRequest, error) {
	return r.list(r.db.WithContext(ctx).Where("status = ?", string(status)).Order("submitted_at ASC"), page)
}

// ListByUser returns the user's requests, newest first
func (r *TopUpRepository) ListByUser(ctx context.Context, userID uuid.UUID, page persistence.Page) ([]entity.TopUpRequest, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID).Order("submitted_at DESC"), page)
}

func (r *TopUpRepository) list(query *gorm.DB, page persistence.Page) ([]entity.TopUpRequest, error) {
	page = page.Normalize()
	var requestModels []model.TopUpRequest
	if err := query.Limit(page.Limit).Offset(page.Offset).Find(&requestModels).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTopUpRequestNotFound)
	}

	requests := make([]entity.TopUpRequest, 0, len(requestModels))
	for i := range requestModels {
		requests = append(requests, topUpToEntity(&requestModels[i]))
	}
	return requests, nil
}

// History returns requests matching the filter joined with requester and reviewer handles
func (r *TopUpRepository) History(ctx context.Context, filter persistence.HistoryFilter) ([]persistence.TopUpView, error) {
	var rows []historyRow
	if err := buildHistoryQuery(r.db.WithContext(ctx), filter).Find(&rows).Error; err != nil {
		return nil, r.errorClassifier.MapError(err, errs.ErrTopUpRequestNotFound)
	}

	views := make([]persistence.TopUpView, 0, len(rows))
	for i := range rows {
		requestModel := rows[i].request()
		view := persistence.TopUpView{
			Request:    topUpToEntity(&requestModel),
			UserHandle: rows[i].UserHandle,
			UserEmail:  rows[i].UserEmail,
		}
		if rows[i].ReviewerHandle != nil {
			view.ReviewerHandle = *rows[i].ReviewerHandle
		}
		views = append(views, view)
	}
	return views, nil
}
