package zim

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Punctuation replaced by underscore in tag names. Hyphen and space are
// handled alongside this set.
const tagPunctuation = ".,:;?!+&$%#\\*"

// asciiFold decomposes accented characters and strips the combining marks,
// so "café" folds to "cafe".
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// TagString normalizes free-form tag names into Zim's @tag token syntax.
// Hierarchical tags collapse to their leaf segment, punctuation becomes
// underscores, and tokens without any alphanumeric character are dropped.
// Returns the empty string when nothing survives.
func TagString(tags []string) string {
	var out []string
	for _, tag := range tags {
		cleaned := cleanTag(tag)
		if cleaned == "" {
			continue
		}
		out = append(out, "@"+cleaned)
	}
	return strings.Join(out, " ")
}

func cleanTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}

	// Hierarchical tags keep only the final segment.
	if idx := strings.LastIndex(tag, "/"); idx >= 0 {
		tag = tag[idx+1:]
	}

	tag = strings.NewReplacer(`'`, "", `"`, "", "‘", "", "’", "", "“", "", "”", "").Replace(tag)

	if folded, _, err := transform.String(asciiFold, tag); err == nil {
		tag = folded
	}

	var b strings.Builder
	for _, r := range tag {
		switch {
		case strings.ContainsRune(tagPunctuation, r), r == '-', r == ' ':
			b.WriteByte('_')
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if !hasAlphanumeric(cleaned) {
		return ""
	}
	return cleaned
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if r != '_' {
			return true
		}
	}
	return false
}
