// utils/validator.go - Input sanitizing
package utils

import (
	"strings"
)

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// SanitizeList sanitizes every entry. Entries left blank are kept so validation can reject them.
func SanitizeList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = SanitizeInput(v)
	}
	return out
}
