// Package slug derives filesystem-safe page names from note titles and
// keeps them unique within an import run.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

// Fallback is used when a title normalizes to nothing.
const Fallback = "untitled"

// Word characters are Unicode letters, digits, and underscore; Go's \w is
// ASCII-only, so spell the classes out.
var (
	dropRe     = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	collapseRe = regexp.MustCompile(`\s+`)
)

// Make normalizes a title into its base slug form: lowercase, word
// characters only, whitespace runs collapsed to a single underscore,
// leading and trailing underscores and hyphens trimmed.
func Make(title string) string {
	s := strings.ToLower(title)
	s = dropRe.ReplaceAllString(s, "")
	s = collapseRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_-")
	if s == "" {
		return Fallback
	}
	return s
}

// Allocate returns a slug for title that no earlier note in this run holds,
// and registers it in used. Collisions within the run resolve by probing
// base_1, base_2, ... for the smallest free suffix.
//
// Pages already on disk are deliberately not treated as collisions: source
// files are processed in a stable chronological order, so a re-run assigns
// every note the same slug and the update decision engine recognizes the
// note's own page from the previous run. Probing past on-disk pages would
// re-import every previously collided note under a fresh name.
func Allocate(title string, used map[string]struct{}) string {
	base := Make(title)

	candidate := base
	for n := 1; ; n++ {
		if _, taken := used[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}

	used[candidate] = struct{}{}
	return candidate
}
