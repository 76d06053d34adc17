package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/screen-booking/internal/domain/error"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"10.", 1000},
			{" 150 ", 15000},
			{"1234567.89", 123456789},
			{"0", 0},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				cents, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, cents)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			description string
		}{
			{"", "Empty string"},
			{"   ", "Whitespace only"},
			{"-1.00", "Negative amount"},
			{"+1.00", "Explicit sign"},
			{"1.234", "Too many decimal places"},
			{"abc", "Non-numeric"},
			{"1,000.00", "Comma as thousands separator"},
			{"1.00.00", "Multiple decimal points"},
			{".50", "Missing whole part"},
			{"$100", "Currency symbol"},
			{"99999999999999999999", "Overflow"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.ErrorIs(t, err, errs.ErrValidation)
			})
		}
	})
}

func TestParsePositiveAmount(t *testing.T) {
	_, err := ParsePositiveAmount("0.00")
	assert.ErrorIs(t, err, errs.ErrValidation)

	cents, err := ParsePositiveAmount("500")
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), cents)
}

func TestParseSignedAmount(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
		valid    bool
	}{
		{"-12.50", -1250, true},
		{"7", 700, true},
		{" -0.01 ", -1, true},
		{"-0", 0, false},
		{"--5", 0, false},
		{"-", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			cents, err := ParseSignedAmount(tc.input)
			if !tc.valid {
				assert.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, cents)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{10, "0.10"},
		{0, "0.00"},
		{-10000, "-100.00"},
		{-5, "-0.05"},
		{123456789, "1234567.89"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.cents))
		})
	}
}
