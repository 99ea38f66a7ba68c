// Package normalize canonicalizes free text before comparison so catalog
// search is insensitive to case, Arabic diacritics and the digit script.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// alefWasla is dropped along with the combining marks; the storefront's
// data never relies on it to distinguish two words.
const alefWasla = '\u0671'

// IsArabicMark reports whether r is an Arabic-script combining mark that
// Normalize strips.
func IsArabicMark(r rune) bool {
	switch {
	case r >= '\u0610' && r <= '\u061A':
		return true
	case r >= '\u064B' && r <= '\u065F':
		return true
	case r == '\u0670', r == alefWasla:
		return true
	case r >= '\u06D6' && r <= '\u06DC':
		return true
	case r >= '\u06DF' && r <= '\u06E4':
		return true
	case r == '\u06E7', r == '\u06E8':
		return true
	case r >= '\u06EA' && r <= '\u06ED':
		return true
	}
	return false
}

// FoldDigit maps Arabic-Indic (U+0660..U+0669) and Extended Arabic-Indic
// (U+06F0..U+06F9) digits to ASCII by codepoint offset. Other runes pass
// through unchanged.
func FoldDigit(r rune) rune {
	switch {
	case r >= '\u0660' && r <= '\u0669':
		return '0' + (r - '\u0660')
	case r >= '\u06F0' && r <= '\u06F9':
		return '0' + (r - '\u06F0')
	}
	return r
}

// Normalize lower-cases text, strips Arabic diacritics, folds the digit
// script to ASCII and trims surrounding whitespace. Internal whitespace is
// kept as is. Normalize is total and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// transform.Chain keeps internal buffers, so it is built per call
	// instead of shared between goroutines.
	t := transform.Chain(
		runes.Remove(runes.Predicate(IsArabicMark)),
		runes.Map(FoldDigit),
	)

	out, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		out = fallback(strings.ToLower(text))
	}
	return strings.TrimFunc(out, unicode.IsSpace)
}

// fallback applies the same rune rules without the transform package.
func fallback(s string) string {
	return strings.Map(func(r rune) rune {
		if IsArabicMark(r) {
			return -1
		}
		return FoldDigit(r)
	}, s)
}

// Terms normalizes a query and splits it on whitespace.
// Runs of whitespace never produce empty terms.
func Terms(query string) []string {
	return strings.Fields(Normalize(query))
}
