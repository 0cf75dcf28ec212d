package utils

import (
	"regexp"
	"strings"
)

var htmlRegex = regexp.MustCompile(`<[^>]*>`)

func SanitizeString(input string) string {
	return strings.TrimSpace(htmlRegex.ReplaceAllString(input, ""))
}

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
