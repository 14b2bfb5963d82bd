// Package slug derives URL slugs from titles.
package slug

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// letters, marks, digits and underscore count as word characters for any script
	disallowed = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\v\x{FEFF}\p{Z}-]+`)
	whitespace = regexp.MustCompile(`[\s\v\x{FEFF}\p{Z}]+`)
	hyphenRuns = regexp.MustCompile(`-+`)
)

// Make lowercases the title, strips punctuation, joins words with single
// hyphens and trims hyphens from both ends.
func Make(title string) string {
	// Caser keeps state, so one per call
	s := cases.Lower(language.Und).String(title)
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
