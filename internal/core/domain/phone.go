package domain

import (
	"errors"
	"strings"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// DefaultCountryCode is applied to national-format numbers that carry no
// international prefix. Greece, where most tenants operate.
const DefaultCountryCode = "30"

// NormalizePhone converts a free-form phone string to canonical international
// form: "+<country><national>", digits only after the plus. Accepted inputs:
//
//	+306912345678        (already canonical)
//	00306912345678       (00 international prefix)
//	306912345678         (country code, no prefix)
//	6912345678           (national; DefaultCountryCode prepended)
//
// Spaces, dashes, dots and parentheses are stripped. Normalization is
// idempotent. All stored and queried phone values go through this function so
// equality lookups work regardless of how a number was typed.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	hasPlus := false
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			hasPlus = true
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, skip
		default:
			return "", ErrInvalidPhone
		}
	}

	digits := b.String()
	if !hasPlus && strings.HasPrefix(digits, "00") {
		digits = digits[2:]
		hasPlus = true
	}
	if len(digits) < 8 || len(digits) > 15 {
		return "", ErrInvalidPhone
	}

	if hasPlus || strings.HasPrefix(digits, DefaultCountryCode) {
		return "+" + digits, nil
	}
	// National format: leading zero dropped before the country code.
	digits = strings.TrimPrefix(digits, "0")
	if len(digits) < 8 {
		return "", ErrInvalidPhone
	}
	return "+" + DefaultCountryCode + digits, nil
}
