package utils

import (
	"errors"
	"strings"
)

// Indian mobile numbers: country code +91 followed by exactly 10 digits.
const (
	phoneCountryPrefix = "+91"
	phoneDigits        = 10
)

var ErrInvalidPhone = errors.New("invalid phone number")

// NormalizePhone normalizes a phone number to the +91XXXXXXXXXX convention.
// Accepts "+91" prefixed, "91"/"0" prefixed and bare 10-digit inputs; spaces,
// dashes and parentheses are stripped. Returns ErrInvalidPhone when the
// subscriber part is not exactly 10 digits.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separator, ignore
		default:
			return "", ErrInvalidPhone
		}
	}

	s := b.String()
	switch {
	case strings.HasPrefix(s, phoneCountryPrefix):
		s = strings.TrimPrefix(s, phoneCountryPrefix)
	case strings.HasPrefix(s, "91") && len(s) == phoneDigits+2:
		s = s[2:]
	case strings.HasPrefix(s, "0") && len(s) == phoneDigits+1:
		s = s[1:]
	}

	if len(s) != phoneDigits || strings.ContainsRune(s, '+') {
		return "", ErrInvalidPhone
	}

	return phoneCountryPrefix + s, nil
}
