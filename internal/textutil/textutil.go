// Package textutil provides display-text helpers for job labels and status
// messages.
package textutil

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveTitle builds a human-readable job title from a source reference or
// file path. Separators collapse to spaces and the result is title-cased.
func DeriveTitle(sourceRef string) string {
	if sourceRef == "" {
		return "Untitled Media"
	}
	base := filepath.Base(sourceRef)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Media"
	}
	return cases.Title(language.Und).String(title)
}

// Truncate shortens value to at most max runes, appending an ellipsis when
// anything was cut.
func Truncate(value string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
