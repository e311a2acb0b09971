// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmail reports whether s looks like an email address. This is a
// syntactic gate for request fields, not RFC 5322 enforcement.
func IsValidEmail(s string) bool {
	return len(s) <= 128 && emailPattern.MatchString(s)
}

// IsValidDate reports whether s is a canonical YYYY-MM-DD date string.
func IsValidDate(s string) bool {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return false
	}
	// Reject non-canonical forms like 2024-1-2 that Parse would accept
	// after normalization.
	return t.Format(dateLayout) == s
}

// IsAfterToday reports whether s is a valid date strictly after today.
// ISO dates compare correctly as strings.
func IsAfterToday(s string) bool {
	return IsValidDate(s) && s > time.Now().Format(dateLayout)
}

// IsUniqueList reports whether every string in the list is distinct.
func IsUniqueList(list []string) bool {
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			return false
		}
		seen[s] = struct{}{}
	}
	return true
}

// IsPositive reports whether n is a positive integer.
func IsPositive(n int) bool {
	return n > 0
}
