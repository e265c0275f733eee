// Package validate holds the field-level checks shared by form and bulk
// upload paths. Callers are expected to trim input first; none of these
// functions tolerate surrounding whitespace.
package validate

import (
	"fmt"
	"strings"
)

// ZipCode reports whether s is exactly five ASCII digits.
func ZipCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// EmailShape is a minimal structural check: the address must contain an @.
// Intentionally not an RFC validator.
func EmailShape(s string) bool {
	return strings.Contains(s, "@")
}

// FormatPhone renders a 10-digit phone number as (AAA) BBB-CCCC for display.
// Anything that doesn't strip down to exactly 10 digits is returned unchanged,
// including the empty string. Display transform only; never stored.
func FormatPhone(s string) string {
	if s == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return s
	}
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}
