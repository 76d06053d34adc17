package entity

import (
	"unicode/utf8"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// Text limits, in characters. They match the column sizes of the persistence models.
const (
	MaxHandleLength           = 64
	MaxEmailLength            = 255
	MaxScreenNameLength       = 128
	MaxDisplayNameLength      = 64
	MaxReceiptReferenceLength = 512
	MaxReceiptMimeTypeLength  = 128
)

// CheckLength rejects values longer than limit characters
func CheckLength(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return errs.Validation("%s is %d characters long, at most %d allowed", field, n, limit)
	}
	return nil
}
