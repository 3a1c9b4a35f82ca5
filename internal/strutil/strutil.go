// Package strutil provides text normalization helpers for matching
// French-language location data.
package strutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFKD and strips combining marks, so
// "Île-de-France" folds to "ile-de-france" after lowercasing.
var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Fold lowercases s and removes diacritics.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

var intPattern = regexp.MustCompile(`\d+`)

// FirstInt extracts the first integer in s, ignoring narrow no-break
// spaces used as French thousands separators. Returns nil when s
// contains no digits.
func FirstInt(s string) *int {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, " ", "")
	m := intPattern.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}
