package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatReceiptNumber(t *testing.T) {
	assert.Equal(t, "REC-2025-0001", FormatReceiptNumber(2025, 1))
	assert.Equal(t, "REC-2025-0042", FormatReceiptNumber(2025, 42))
	assert.Equal(t, "REC-2026-1234", FormatReceiptNumber(2026, 1234))
	// The counter is not capped at four digits
	assert.Equal(t, "REC-2026-10001", FormatReceiptNumber(2026, 10001))
}
