// Package render holds the render collaborators: a terminal renderer for the
// CLI and an in-memory content area, both fed sanitized fragments.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps formatting markup and drops scripts, handlers and the like.
	ugc = bluemonday.UGCPolicy()

	// strict drops every tag and keeps text only.
	strict = bluemonday.StrictPolicy()

	blockEnd   = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|h[1-6]|li|tr|table|ul|ol|section|article|header|footer|pre|blockquote)>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// Sanitize returns fragment with anything unsafe for the admin page removed.
func Sanitize(fragment string) string {
	return ugc.Sanitize(fragment)
}

// PlainText flattens fragment to readable text, one block per line.
func PlainText(fragment string) string {
	marked := blockEnd.ReplaceAllString(fragment, "$0\n")
	text := html.UnescapeString(strict.Sanitize(marked))

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
