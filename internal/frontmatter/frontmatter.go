// Package frontmatter splits and decodes the YAML metadata block at the top
// of a Notable-style Markdown note.
//
// Parsing is deliberately forgiving: a malformed block degrades to "no
// metadata" and the whole content becomes the body. The importer warns and
// falls back to defaults rather than failing the note.
package frontmatter

import (
	"strings"

	"github.com/alnah/go-md2zim/internal/yamlutil"
)

// Delimiter marks the start and end of the front-matter block.
const Delimiter = "---"

// Meta holds the metadata fields the importer consumes. Created and Modified
// keep the raw decoded values; timestamp interpretation belongs to the
// timeutil resolver.
type Meta struct {
	Title    string
	Tags     []string
	Created  any
	Modified any

	// HasBlock reports whether a well-formed front-matter block was found.
	HasBlock bool
	// BadTags reports that a tags field was present but not a list of
	// strings; the importer warns and proceeds with no tags.
	BadTags bool
}

// Split separates the front-matter block from the body. The block must start
// with the delimiter on the first line and be closed by a second delimiter
// line. Content without a well-formed block is returned entirely as body.
func Split(content string) (block, body string, ok bool) {
	trimmed := strings.TrimLeft(content, "\r\n")
	if !strings.HasPrefix(trimmed, Delimiter) {
		return "", content, false
	}

	rest := trimmed[len(Delimiter):]
	idx := strings.Index(rest, "\n"+Delimiter)
	if idx < 0 {
		return "", content, false
	}

	block = rest[:idx]
	after := rest[idx+1+len(Delimiter):]
	// Drop the remainder of the closing delimiter line.
	if nl := strings.Index(after, "\n"); nl >= 0 {
		after = after[nl+1:]
	} else {
		after = ""
	}
	return block, strings.TrimLeft(after, "\n"), true
}

// Parse extracts metadata and body from note content. The stem is the
// source file name without extension and is the default title.
func Parse(content, stem string) (Meta, string) {
	meta := Meta{Title: stem}

	block, body, ok := Split(content)
	if !ok {
		return meta, body
	}

	var fields map[string]any
	if err := yamlutil.Unmarshal([]byte(block), &fields); err != nil {
		// Malformed YAML: treat the whole note as body.
		return meta, content
	}

	meta.HasBlock = true

	if title, ok := fields["title"].(string); ok && strings.TrimSpace(title) != "" {
		meta.Title = strings.TrimSpace(title)
	}

	if raw, present := fields["tags"]; present {
		tags, bad := decodeTags(raw)
		meta.Tags = tags
		meta.BadTags = bad
	}

	meta.Created = fields["created"]
	meta.Modified = fields["modified"]

	return meta, body
}

// decodeTags coerces a decoded tags value into a string slice. Anything
// that is not a sequence is rejected; non-string items are skipped.
func decodeTags(raw any) (tags []string, bad bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags, false
	case []string:
		return v, false
	default:
		return nil, true
	}
}
