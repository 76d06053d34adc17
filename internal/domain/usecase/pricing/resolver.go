package pricing

import (
	"time"

	"github.com/amirhossein-jamali/screen-booking/internal/domain/entity"
)

// Resolve returns the price of a slot starting at start on the screen.
// Overrides are scanned in order and the first match wins; without a match the base price applies.
// The result depends only on its inputs so that availability and booking always agree.
func Resolve(start time.Time, screen *entity.Screen) int64 {
	start = start.UTC()
	day := start.Weekday()
	minute := start.Hour()*60 + start.Minute()

	for _, o := range screen.Overrides {
		if o.Matches(day, minute) {
			return o.Price
		}
	}
	return screen.BasePrice
}
