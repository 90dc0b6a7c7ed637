package utils

import (
	"strings"
)

// NormalizeEmail trims and lower-cases an email. No format validation is done:
// any non-empty string is accepted as a key.
func NormalizeEmail(v string) string {
	if v == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(v))
}

// NormalizeTableID upper-cases a table identifier and removes all whitespace,
// so "vip 1", "VIP  1" and " Vip1 " all become "VIP1".
func NormalizeTableID(v string) string {
	if v == "" {
		return ""
	}
	s := strings.ToUpper(strings.TrimSpace(v))
	return strings.Join(strings.Fields(s), "")
}

// NormalizeText trims free-text fields such as names and titles.
func NormalizeText(v string) string {
	return strings.TrimSpace(v)
}
