package database

import (
	"fmt"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/repository"
)

// ErrorMapper maps transaction control errors to domain errors
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: repository.NewErrorClassifier()}
}

// MapError maps an error raised by begin, commit or rollback.
// Contention becomes ErrConflict so the runner can retry; anything else is internal.
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, m.classifier.MapError(err, errs.ErrInternal))
}

// Kind returns the taxonomy kind of a mapped error for logging
func (m *ErrorMapper) Kind(err error) string {
	return string(errs.KindOf(err))
}
