package utils

import (
	"regexp"
	"strings"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	firstDigit = regexp.MustCompile(`\d+`)
)

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// DigitsOnly drops every non-digit rune.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// FirstNumber returns the first run of digits in s, or an empty string.
func FirstNumber(s string) string {
	return firstDigit.FindString(s)
}

// ContainsAny reports whether s contains at least one of the substrings.
func ContainsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
