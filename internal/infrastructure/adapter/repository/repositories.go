package repository

import (
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
)

// Repositories binds every repository to one gorm handle, usually a transaction
type Repositories struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewRepositories creates the repository set for db
func NewRepositories(db *gorm.DB, logger coreport.Logger) *Repositories {
	return &Repositories{db: db, logger: logger}
}

var _ persistence.Repositories = (*Repositories)(nil)

func (r *Repositories) Users() persistence.UserRepository {
	return NewUserRepository(r.db, r.logger)
}

func (r *Repositories) Screens() persistence.ScreenRepository {
	return NewScreenRepository(r.db, r.logger)
}

func (r *Repositories) Bookings() persistence.BookingRepository {
	return NewBookingRepository(r.db, r.logger)
}

func (r *Repositories) Ledger() persistence.LedgerRepository {
	return NewLedgerRepository(r.db, r.logger)
}

func (r *Repositories) TopUps() persistence.TopUpRepository {
	return NewTopUpRepository(r.db, r.logger)
}
