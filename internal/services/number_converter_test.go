package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "ZERO DOLLARS AND 00/100"},
		{5, "FIVE DOLLARS AND 00/100"},
		{18.00, "EIGHTEEN DOLLARS AND 00/100"},
		{86.40, "EIGHTY-SIX DOLLARS AND 40/100"},
		{100, "ONE HUNDRED DOLLARS AND 00/100"},
		{104.48, "ONE HUNDRED FOUR DOLLARS AND 48/100"},
		{1500.50, "ONE THOUSAND FIVE HUNDRED DOLLARS AND 50/100"},
		{1000000, "ONE MILLION DOLLARS AND 00/100"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, NumberToWords(tt.amount))
		})
	}
}
