package utils

import (
	"strings"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeUpper: trim + uppercase, dipakai untuk enum dari payload (status, pattern, method).
func NormalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
