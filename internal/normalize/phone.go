// Package normalize canonicalizes contact and address fields before
// candidate leads reach scoring and persistence.
package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Phone canonicalizes a raw phone string to +1XXXXXXXXXX.
// Exactly 10 digits get the country code prefixed; 11 digits with a
// leading 1 are kept as-is. Every other digit count is rejected.
// 7-digit locals especially are ambiguous, and a wrong normalization
// that merges two different people is worse than dropping a weak
// candidate.
func Phone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "+1" + digits, true
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits, true
	default:
		return "", false
	}
}

// PhoneDisplay formats a canonical +1XXXXXXXXXX number for display,
// e.g. "(239) 555-0101". Falls back to the input when it cannot parse.
func PhoneDisplay(canonical string) string {
	if canonical == "" {
		return ""
	}
	num, err := phonenumbers.Parse(canonical, "US")
	if err != nil {
		return canonical
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}
