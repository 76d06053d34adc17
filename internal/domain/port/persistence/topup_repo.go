package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// TopUpRepository persists top-up requests and their review state
type TopUpRepository interface {
	// Create stores a new pending request
	Create(ctx context.Context, request *entity.TopUpRequest) error

	// GetByID retrieves a request
	//
	// Possible errors:
	// - ErrTopUpRequestNotFound: If request doesn't exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.TopUpRequest, error)

	// GetByIDForUpdate retrieves a request and locks it until the transaction ends
	//
	// Possible errors:
	// - ErrTopUpRequestNotFound: If request doesn't exist
	// - ErrConflict: If the lock could not be acquired in time
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.TopUpRequest, error)

	// SaveReview persists the review state of a request
	//
	// Possible errors:
	// - ErrTopUpRequestNotFound: If request doesn't exist
	SaveReview(ctx context.Context, request *entity.TopUpRequest) error

	// ListByStatus returns requests with the status, oldest submission first
	ListByStatus(ctx context.Context, status entity.TopUpStatus, page Page) ([]entity.TopUpRequest, error)

	// ListByUser returns the user's requests, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]entity.TopUpRequest, error)

	// History returns requests matching the filter, newest first
	History(ctx context.Context, filter HistoryFilter) ([]TopUpView, error)
}
