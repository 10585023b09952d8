// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "IN"

// Normalize canonicalizes a raw phone input into the comparable 10-digit key
// used for duplicate detection. It strips every non-digit character, then
// drops the "91" country prefix and a single "0" trunk prefix when the result
// is still longer than 10 digits. Inputs that end up shorter than 10 digits
// are returned unchanged; validity is the caller's concern.
//
// Normalize is pure and idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) > 10 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) > 10 && strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}

	return digits
}

// IsPlausible reports whether a canonical key looks like a dialable number.
// The 10-digit shape is the hard requirement; the phonenumbers library is
// consulted for the possible-number check on top of that.
func IsPlausible(digits string) bool {
	if len(digits) != 10 {
		return false
	}

	number, err := phonenumbers.Parse(digits, defaultRegion)
	if err != nil {
		return false
	}

	return phonenumbers.IsPossibleNumber(number)
}
