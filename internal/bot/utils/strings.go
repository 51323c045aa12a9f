package utils

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TruncateString truncates a string to a maximum number of characters.
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	return string(runes[:maxLength-3]) + "..."
}

// NormalizeString replaces newlines with spaces and removes backticks
// so user text cannot break Discord markdown.
func NormalizeString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "`", "")
}

// FormatLabel turns an identifier like "enforcement_failed" into "Enforcement Failed".
func FormatLabel(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Pluralize returns singular when count is one and plural otherwise.
// An empty plural adds an "s" to singular.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}

	if plural == "" {
		return singular + "s"
	}

	return plural
}

// GetTimestampedSubtext formats a message with a relative Discord timestamp.
func GetTimestampedSubtext(message string) string {
	if message != "" {
		return fmt.Sprintf("-# `%s` <t:%d:R>", message, time.Now().Unix())
	}

	return ""
}
