package capture

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize prepares a string for case-insensitive comparison:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// Matches reports whether c's text or description contains query,
// ignoring case and whitespace runs. An empty query matches nothing.
func Matches(c *Capture, query string) bool {
	q := Normalize(query)
	if q == "" {
		return false
	}
	if strings.Contains(Normalize(c.Text), q) {
		return true
	}
	return c.Description != "" && strings.Contains(Normalize(c.Description), q)
}

// CleanStrings trims every entry and drops blanks, returning nil when nothing is left.
func CleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
