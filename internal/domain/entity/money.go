package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
)

// Money amounts are int64 minor units (cents). The wire format is a decimal string with at most two places.

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ParseAmount validates a non-negative decimal string and converts it to cents.
// "100" -> 10000, "1.5" -> 150, "0.01" -> 1.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, errs.Validation("amount is empty")
	}
	if strings.HasPrefix(amount, "-") {
		return 0, errs.Validation("amount cannot be negative")
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, errs.Validation("amount %q has more than one decimal point", amount)
	}

	whole := parts[0]
	frac := ""
	if len(parts) == 2 {
		frac = parts[1]
	}
	if len(frac) > MaxDecimalPlaces {
		return 0, errs.Validation("amount %q has more than %d decimal places", amount, MaxDecimalPlaces)
	}
	if whole == "" || !isDigits(whole) || !isDigits(frac) {
		return 0, errs.Validation("amount %q is not a decimal number", amount)
	}

	// Right-pad the fraction so the concatenation is always in cents
	frac += strings.Repeat("0", MaxDecimalPlaces-len(frac))

	value, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, errs.Validation("amount %q is out of range", amount)
	}
	return value, nil
}

// ParsePositiveAmount is ParseAmount that also rejects zero
func ParsePositiveAmount(amount string) (int64, error) {
	cents, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	if cents == 0 {
		return 0, errs.Validation("amount must be greater than zero")
	}
	return cents, nil
}

// ParseSignedAmount accepts an optional leading minus sign. Zero is rejected.
// "-12.50" -> -1250.
func ParseSignedAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	negative := strings.HasPrefix(amount, "-")
	cents, err := ParsePositiveAmount(strings.TrimPrefix(amount, "-"))
	if err != nil {
		return 0, err
	}
	if negative {
		return -cents, nil
	}
	return cents, nil
}

// FormatAmount renders cents as a signed decimal string with two places.
// 1015 -> "10.15", -100 -> "-1.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
