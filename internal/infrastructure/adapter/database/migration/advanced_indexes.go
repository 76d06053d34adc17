package migration

import (
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// indexStatement is one idempotent DDL statement
type indexStatement struct {
	name string
	sql  string
}

// Unique indexes are part of the domain contract: the repositories map violations
// of each name onto a domain error.
var uniqueIndexes = []indexStatement{
	{
		// At most one live booking per screen and slot start; the serialization point for booking races
		name: "idx_bookings_active_slot",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
			ON bookings (screen_id, start_time)
			WHERE status IN ('upcoming', 'active')`,
	},
	{
		name: "idx_ledger_entries_user_sequence",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_entries_user_sequence
			ON ledger_entries (user_id, sequence)`,
	},
	{
		name: "idx_users_handle_lower",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_handle_lower ON users (lower(handle))`,
	},
	{
		name: "idx_users_email_lower",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email))`,
	},
	{
		name: "idx_screens_name_lower",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_screens_name_lower ON screens (lower(name))`,
	},
}

var advancedIndexes = []indexStatement{
	{
		// Overlap lookups scan one screen's live bookings by time
		name: "idx_bookings_screen_window",
		sql: `CREATE INDEX IF NOT EXISTS idx_bookings_screen_window
			ON bookings (screen_id, start_time, end_time)
			WHERE status IN ('upcoming', 'active')`,
	},
	{
		name: "idx_bookings_user_start",
		sql:  `CREATE INDEX IF NOT EXISTS idx_bookings_user_start ON bookings (user_id, start_time DESC)`,
	},
	{
		name: "idx_topup_requests_pending",
		sql: `CREATE INDEX IF NOT EXISTS idx_topup_requests_pending
			ON topup_requests (submitted_at)
			WHERE status = 'pending'`,
	},
	{
		name: "idx_topup_requests_user_submitted",
		sql:  `CREATE INDEX IF NOT EXISTS idx_topup_requests_user_submitted ON topup_requests (user_id, submitted_at DESC)`,
	},
	{
		name: "idx_topup_requests_reviewer",
		sql:  `CREATE INDEX IF NOT EXISTS idx_topup_requests_reviewer ON topup_requests (reviewed_by) WHERE reviewed_by IS NOT NULL`,
	},
	{
		// Ledger rows are append-only and arrive in timestamp order
		name: "idx_ledger_entries_timestamp_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_ledger_entries_timestamp_brin
			ON ledger_entries USING BRIN (timestamp)
			WITH (pages_per_range = 32)`,
	},
}

// AdvancedIndexManager manages PostgreSQL-specific indexes and table settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateIndexes creates the unique indexes the domain relies on
func (m *AdvancedIndexManager) CreateIndexes(db *gorm.DB) error {
	m.logger.Info("Creating database indexes", nil)
	return m.exec(db, uniqueIndexes)
}

// CreateAdvancedIndexes creates partial and BRIN indexes for the hot read paths
func (m *AdvancedIndexManager) CreateAdvancedIndexes(db *gorm.DB) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)
	if err := m.exec(db, advancedIndexes); err != nil {
		return err
	}
	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

func (m *AdvancedIndexManager) exec(db *gorm.DB, statements []indexStatement) error {
	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL performance tweaks. Failures are logged and ignored.
func (m *AdvancedIndexManager) CreatePerformanceTweaks(db *gorm.DB) error {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	tweaks := []indexStatement{
		// users rows are updated on every booking and review
		{name: "users fillfactor", sql: `ALTER TABLE users SET (fillfactor = 80)`},
		{name: "bookings fillfactor", sql: `ALTER TABLE bookings SET (fillfactor = 90)`},
		{name: "ledger user statistics", sql: `ALTER TABLE ledger_entries ALTER COLUMN user_id SET STATISTICS 1000`},
	}
	for _, tweak := range tweaks {
		if err := db.Exec(tweak.sql).Error; err != nil {
			m.logger.Warn("Failed to apply performance tweak", map[string]any{
				"tweak": tweak.name,
				"error": err.Error(),
			})
		}
	}

	m.logger.Info("PostgreSQL performance tweaks applied successfully", nil)
	return nil
}
