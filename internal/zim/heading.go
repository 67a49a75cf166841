package zim

import (
	"regexp"
	"strings"

	"golang.org/x/text/transform"
)

// headingRe matches a top-level Zim heading line. Not anchored to the start
// of the body: pandoc occasionally emits preamble lines before the heading.
var headingRe = regexp.MustCompile(`(?m)^[ \t]*={6}[ \t]*(.*?)[ \t]*={6}[ \t]*\r?\n?`)

var quoteFolder = strings.NewReplacer("‘", "'", "’", "'", "“", `"`, "”", `"`)

// RemoveDuplicateHeading strips one top-level heading from converted body
// text when it merely restates the note's title or its file stem (with
// underscores read as spaces). Comparison is case-insensitive after Unicode
// compatibility normalization and curly-quote folding. When no heading
// matches, the body is returned with trailing whitespace trimmed.
func RemoveDuplicateHeading(body, title, stem string) string {
	wantTitle := foldHeading(title)
	wantStem := foldHeading(strings.ReplaceAll(stem, "_", " "))

	for _, loc := range headingRe.FindAllStringSubmatchIndex(body, -1) {
		text := foldHeading(body[loc[2]:loc[3]])
		if text != wantTitle && text != wantStem {
			continue
		}
		return strings.TrimSpace(body[:loc[0]] + body[loc[1]:])
	}

	return strings.TrimRight(body, " \t\r\n")
}

// foldHeading normalizes heading text for comparison: compatibility
// normalization, straight quotes, lowercase, collapsed whitespace.
func foldHeading(s string) string {
	if folded, _, err := transform.String(asciiFold, s); err == nil {
		s = folded
	}
	s = quoteFolder.Replace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
