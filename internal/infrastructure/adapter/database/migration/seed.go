package migration

import (
	"context"
	"strings"
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/usecase/catalog"
)

// DefaultAccounts are created by the development seed. Credentials live with the auth service.
var DefaultAccounts = []account.NewAccount{
	{Handle: "ops", Email: "ops@screen-booking.local", Role: entity.RoleAdmin},
	{Handle: "player-one", Email: "player-one@screen-booking.local", Role: entity.RoleUser, InitialBalance: "120.00"},
	{Handle: "player-two", Email: "player-two@screen-booking.local", Role: entity.RoleUser, InitialBalance: "50.00"},
}

// weekendEvenings covers Saturday and Sunday from 18:00 to midnight UTC
var weekendEvenings = entity.PriceOverride{
	DaysOfWeek:  []time.Weekday{time.Saturday, time.Sunday},
	StartMinute: 18 * 60,
	EndMinute:   entity.MinutesPerDay,
	Price:       15000,
}

// DefaultScreens are created by the development seed
var DefaultScreens = []catalog.ScreenInput{
	{Name: "Arena", BasePrice: 10000, Overrides: []entity.PriceOverride{weekendEvenings}},
	{Name: "Studio", BasePrice: 8000},
}

// SeedDemoData creates the default accounts and screens that do not exist yet
func SeedDemoData(ctx context.Context, accounts *account.UseCase, screens *catalog.UseCase, logger coreport.Logger) error {
	if _, err := accounts.ProvisionDefaults(ctx, DefaultAccounts); err != nil {
		return err
	}

	existing, err := screens.List(ctx, false)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, s := range existing {
		names[strings.ToLower(s.Name)] = true
	}

	created := 0
	for _, input := range DefaultScreens {
		if names[strings.ToLower(input.Name)] {
			continue
		}
		if _, err := screens.Create(ctx, input); err != nil {
			return err
		}
		created++
	}

	logger.Info("Demo data seeded", map[string]any{
		"accounts":        len(DefaultAccounts),
		"screens_created": created,
	})
	return nil
}
