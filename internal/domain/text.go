package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HasContent reports whether s carries text: non-nil and non-empty after
// trimming whitespace. Scoring and merging both decide presence with it.
func HasContent(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// NormalizeText prepares text for duplicate comparison:
//   - trims leading/trailing whitespace
//   - lowercases without locale rules
//
// Diacritics, inner whitespace and punctuation are preserved, so "Straße"
// and "strasse" stay distinct.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	// A Caser is stateful; one per call keeps this safe across goroutines.
	return cases.Lower(language.Und).String(text)
}
