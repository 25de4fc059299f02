// Package keywords implements the CV/job-description keyword comparison:
// text normalization, term extraction, set comparison and suggestion text.
// Every function here is pure and total over string input.
package keywords

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, replaces every character outside [a-z0-9\s]
// with a space, collapses whitespace runs to one space and trims the result.
// The output contains only lowercase ASCII letters, digits and single spaces.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = nonAlphanumeric.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// tokenize splits normalized text into whitespace-delimited words.
func tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}
