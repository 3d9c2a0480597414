package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Package-level compiled regex patterns for performance
var (
	nonWordRegex        = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// arabicLetters maps Arabic code points that users type on Arabic keyboards
// to the Persian letters the marketplace indexes.
var arabicLetters = strings.NewReplacer(
	"ي", "ی",
	"ى", "ی",
	"ك", "ک",
)

// normalizeQuery prepares a search term for the marketplace: Arabic letter
// variants become Persian, Persian and Arabic-Indic digits become ASCII and
// whitespace is collapsed.
func normalizeQuery(q string) string {
	q = arabicLetters.Replace(q)
	q = strings.Map(normalizeDigit, q)
	q = multipleSpacesRegex.ReplaceAllString(q, " ")
	return strings.TrimSpace(q)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Lowercases, treats zero-width non-joiners as spaces and removes punctuation.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ReplaceAll(normalizeQuery(s), "\u200c", " ")
	result = strings.ToLower(result)
	result = nonWordRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func normalizeDigit(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	}
	return r
}

// queryLength counts characters, not bytes
func queryLength(q string) int {
	return utf8.RuneCountInString(q)
}
