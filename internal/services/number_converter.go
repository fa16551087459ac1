package services

import (
	"fmt"
	"math"
	"strings"
)

// NumberToWords converts a float64 amount to English words with currency.
// Example: 1500.50 -> "ONE THOUSAND FIVE HUNDRED DOLLARS AND 50/100"
func NumberToWords(amount float64) string {
	if amount == 0 {
		return "ZERO DOLLARS AND 00/100"
	}

	integerPart := int64(amount)
	decimalPart := int64(math.Round((amount - float64(integerPart)) * 100))

	words := convertNumberToWords(integerPart)

	return fmt.Sprintf("%s DOLLARS AND %02d/100", strings.ToUpper(words), decimalPart)
}

func convertNumberToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}

	if n < 0 {
		return "MINUS " + convertNumberToWords(-n)
	}

	if n < 20 {
		return smallNumbers[n]
	}

	if n < 100 {
		u := n % 10
		t := n / 10
		if u == 0 {
			return tens[t]
		}
		return fmt.Sprintf("%s-%s", tens[t], smallNumbers[u])
	}

	if n < 1000 {
		hundredsPart := n / 100
		remainder := n % 100
		if remainder == 0 {
			return smallNumbers[hundredsPart] + " HUNDRED"
		}
		return fmt.Sprintf("%s HUNDRED %s", smallNumbers[hundredsPart], convertNumberToWords(remainder))
	}

	for _, scale := range scales {
		if n < scale.limit {
			quotient := n / scale.value
			remainder := n % scale.value
			text := convertNumberToWords(quotient) + " " + scale.name
			if remainder == 0 {
				return text
			}
			return fmt.Sprintf("%s %s", text, convertNumberToWords(remainder))
		}
	}

	return fmt.Sprintf("%d", n)
}

var smallNumbers = []string{
	"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
	"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
	"SEVENTEEN", "EIGHTEEN", "NINETEEN",
}

var tens = []string{
	"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
}

var scales = []struct {
	limit int64
	value int64
	name  string
}{
	{1000000, 1000, "THOUSAND"},
	{1000000000, 1000000, "MILLION"},
	{1000000000000, 1000000000, "BILLION"},
}
