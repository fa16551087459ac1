package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{"valid visa", "4532015112830366", true},
		{"valid with spaces", "4532 0151 1283 0366", true},
		{"valid with dashes", "4532-0151-1283-0366", true},
		{"valid amex 15 digits", "378282246310005", true},
		{"valid 13 digits", "4222222222222", true},
		{"checksum failure", "4532015112830367", false},
		{"too short", "453201511283", false},
		{"too long", "45320151128303661234567", false},
		{"letters rejected", "4532a15112830366", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidCardNumber(tt.number))
		})
	}
}

func TestValidExpiry(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, ValidExpiry(6, 2026, now), "current month is still valid")
	assert.True(t, ValidExpiry(12, 2026, now))
	assert.True(t, ValidExpiry(1, 2027, now))
	assert.True(t, ValidExpiry(1, 30, now), "two-digit years read as 20xx")

	assert.False(t, ValidExpiry(5, 2026, now), "last month has expired")
	assert.False(t, ValidExpiry(12, 2025, now))
	assert.False(t, ValidExpiry(0, 2027, now))
	assert.False(t, ValidExpiry(13, 2027, now))
}

func TestValidCVV(t *testing.T) {
	assert.True(t, ValidCVV("123"))
	assert.True(t, ValidCVV("1234"))
	assert.False(t, ValidCVV("12"))
	assert.False(t, ValidCVV("12345"))
	assert.False(t, ValidCVV("12a"))
	assert.False(t, ValidCVV(""))
}

func TestValidateCardReportsEachField(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	result := ValidateCard("4532015112830366", 12, 2027, "123", now)
	assert.True(t, result.Valid())

	result = ValidateCard("4532015112830367", 1, 2020, "12", now)
	assert.False(t, result.NumberValid)
	assert.False(t, result.ExpiryValid)
	assert.False(t, result.CVVValid)
	assert.False(t, result.Valid())

	// One bad field is enough to fail the whole card
	result = ValidateCard("4532015112830366", 12, 2027, "12", now)
	assert.True(t, result.NumberValid)
	assert.True(t, result.ExpiryValid)
	assert.False(t, result.CVVValid)
	assert.False(t, result.Valid())
}
