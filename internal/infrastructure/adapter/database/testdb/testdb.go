// Package testdb starts a disposable PostgreSQL container with the current schema for integration tests.
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/logger"
	timeadapter "github.com/amirhossein-jamali/screen-booking/internal/infrastructure/adapter/time"
)

// TestDatabase represents a migrated test database instance
type TestDatabase struct {
	Container *postgres.PostgresContainer
	Manager   *database.Manager
	DB        *gorm.DB
	URL       string
}

// Setup creates a PostgreSQL container and migrates it. Skipped under -short.
func Setup(t *testing.T) *TestDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("screen_booking_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		withLabels(map[string]string{
			"test":      "screen-booking",
			"test-name": t.Name(),
			"cleanup":   "auto",
		}),
	)
	require.NoError(t, err)

	testDB := &TestDatabase{Container: container}
	t.Cleanup(func() { testDB.cleanup(t) })

	testDB.URL, err = container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	testDB.Manager = database.NewManager(&database.Config{
		URL:           testDB.URL,
		MaxOpenConns:  32,
		MaxIdleConns:  8,
		QueryTimeout:  10 * time.Second,
		LockTimeout:   2 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}, logger.NewNoopLogger(), timeadapter.NewRealTimeProvider())

	testDB.DB, err = testDB.Manager.Connect(ctx)
	require.NoError(t, err)
	require.NoError(t, testDB.Manager.Migrate(ctx))

	return testDB
}

// withLabels merges labels into the container request; testcontainers.WithLabels
// is only available in releases that require a newer Go toolchain.
func withLabels(labels map[string]string) testcontainers.CustomizeRequestOption {
	return func(req *testcontainers.GenericContainerRequest) error {
		if req.Labels == nil {
			req.Labels = make(map[string]string, len(labels))
		}
		for k, v := range labels {
			req.Labels[k] = v
		}
		return nil
	}
}

// UnitOfWork returns a serializable unit of work on the test database
func (td *TestDatabase) UnitOfWork() persistence.UnitOfWork {
	return td.Manager.NewUnitOfWork()
}

// Truncate empties every domain table
func (td *TestDatabase) Truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, td.DB.Exec(
		"TRUNCATE users, screens, price_overrides, bookings, ledger_entries, topup_requests CASCADE",
	).Error)
}

func (td *TestDatabase) cleanup(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Logf("Panic during container cleanup (recovered): %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if td.Manager != nil && td.DB != nil {
		if err := td.Manager.Close(); err != nil {
			t.Logf("Warning: failed to close database: %v", err)
		}
	}
	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate test container: %v", err)
		}
	}
}
