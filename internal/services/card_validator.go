package services

import (
	"strings"
	"time"
	"unicode"
)

// CardValidationResult carries the per-field outcome of validating card
// details before they are sent to the gateway.
type CardValidationResult struct {
	NumberValid bool `json:"number_valid"`
	ExpiryValid bool `json:"expiry_valid"`
	CVVValid    bool `json:"cvv_valid"`
}

func (r CardValidationResult) Valid() bool {
	return r.NumberValid && r.ExpiryValid && r.CVVValid
}

// ValidateCard checks number, expiry and CVV independently so the caller
// can report every invalid field at once.
func ValidateCard(number string, expMonth, expYear int, cvv string, now time.Time) CardValidationResult {
	return CardValidationResult{
		NumberValid: ValidCardNumber(number),
		ExpiryValid: ValidExpiry(expMonth, expYear, now),
		CVVValid:    ValidCVV(cvv),
	}
}

// ValidCardNumber reports whether the number is 13 to 19 digits and passes
// the Luhn checksum. Spaces and dashes are tolerated as separators.
func ValidCardNumber(number string) bool {
	digits := make([]int, 0, len(number))
	for _, r := range number {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, int(r-'0'))
		case r == ' ' || r == '-':
			// separator, skip
		default:
			return false
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ValidExpiry reports whether month/year name the current month or later.
// Two-digit years are interpreted as 20xx.
func ValidExpiry(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year < 100 {
		year += 2000
	}
	if year > now.Year() {
		return true
	}
	if year < now.Year() {
		return false
	}
	return time.Month(month) >= now.Month()
}

// ValidCVV reports whether the code is exactly 3 or 4 digits.
func ValidCVV(cvv string) bool {
	cvv = strings.TrimSpace(cvv)
	if len(cvv) != 3 && len(cvv) != 4 {
		return false
	}
	for _, r := range cvv {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
