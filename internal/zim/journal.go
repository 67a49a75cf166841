package zim

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2zim/internal/fileutil"
	"github.com/alnah/go-md2zim/internal/timeutil"
)

// DefaultSection is the journal section imported note links live under.
const DefaultSection = "AI Notes"

// Display formats for journal page titles and backlink labels.
const (
	pageTitleLayout = "Monday 02 Jan 2006"
	linkDateLayout  = "January 02 2006"
)

// FormatLink renders an in-note backlink to the journal page for the given
// instant, e.g. [[Journal:2025:08:18|Created on August 18 2025]]. The date
// is the instant's local calendar day. Zero instants yield the empty string.
func FormatLink(t time.Time, label string) string {
	if t.IsZero() {
		return ""
	}
	local := timeutil.ToLocal(t)
	return fmt.Sprintf("[[Journal:%s|%s on %s]]",
		local.Format("2006:01:02"), label, local.Format(linkDateLayout))
}

// LinksSection builds the **Journal Links:** block for a note page from its
// created and modified instants. Identical instants produce a single
// Created link; zero instants are skipped; no usable instant yields the
// empty string.
func LinksSection(created, modified time.Time) string {
	var links []string
	if l := FormatLink(created, "Created"); l != "" {
		links = append(links, l)
	}
	if !modified.IsZero() && !modified.Equal(created) {
		if l := FormatLink(modified, "Modified"); l != "" {
			links = append(links, l)
		}
	}
	if len(links) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n**Journal Links:**\n")
	for _, l := range links {
		b.WriteString("* " + l + "\n")
	}
	return b.String()
}

// Journal maintains the date-keyed index pages under a journal root
// directory. Pages are created on first reference and merged on later ones;
// they are never deleted.
type Journal struct {
	Root    string
	Section string
	Now     func() time.Time
	Log     zerolog.Logger
}

// NewJournal returns a Journal writing under root with the default section.
func NewJournal(root string, log zerolog.Logger) *Journal {
	return &Journal{Root: root, Section: DefaultSection, Now: time.Now, Log: log}
}

// PagePath returns the page file for the instant's local calendar day:
// <root>/<year>/<month>/<day>.txt.
func (j *Journal) PagePath(t time.Time) string {
	local := timeutil.ToLocal(t)
	return filepath.Join(j.Root,
		local.Format("2006"), local.Format("01"), local.Format("02")+".txt")
}

// AppendLink records a link line for (targetRef, title) on the journal page
// for the instant's local day, under the configured section. The operation
// is idempotent: a byte-identical link line is never added twice. Returns
// false on write failure; failures are logged, never raised.
func (j *Journal) AppendLink(t time.Time, title, targetRef string) bool {
	return j.appendLinkAt(j.PagePath(t), title, targetRef)
}

func (j *Journal) appendLinkAt(pagePath, title, targetRef string) bool {
	linkLine := fmt.Sprintf("* [[%s|%s]]", targetRef, title)
	sectionLine := fmt.Sprintf("===== %s =====", j.Section)

	content, err := fileutil.ReadText(pagePath)
	if err != nil || strings.TrimSpace(content) == "" {
		// Absent, unreadable, or empty: (re)create from scratch.
		return j.writePage(pagePath, j.newPage(pagePath, sectionLine, linkLine))
	}

	merged, changed := mergeLink(content, sectionLine, linkLine)
	if !changed {
		return true
	}
	return j.writePage(pagePath, merged)
}

// newPage builds a fresh journal page. The page title is derived from the
// page path's year/month/day components, not from the note's timestamp, so
// a malformed path surfaces as an obviously wrong title rather than a
// silently shifted date.
func (j *Journal) newPage(pagePath, sectionLine, linkLine string) string {
	title := pagePath
	if date, err := pageDate(pagePath); err == nil {
		title = date.Format(pageTitleLayout)
	} else {
		j.Log.Warn().Str("page", pagePath).Err(err).Msg("journal page path has no date key")
	}

	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	return Header(title, timeutil.ToLocal(now)) + "\n" + sectionLine + "\n" + linkLine + "\n"
}

// mergeLink inserts linkLine into an existing page under sectionLine.
// Returns the merged content and whether anything changed.
func mergeLink(content, sectionLine, linkLine string) (string, bool) {
	lines := strings.Split(content, "\n")
	if slices.Contains(lines, linkLine) {
		return content, false
	}

	sectionIdx := slices.Index(lines, sectionLine)
	if sectionIdx < 0 {
		// No section yet: blank line, marker, link at end of page.
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + sectionLine + "\n" + linkLine + "\n", true
	}

	// Insert before the next section marker, or at end of file.
	insertAt := len(lines)
	for i := sectionIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "=====") {
			insertAt = i
			break
		}
	}

	// Keep the trailing newline: a final empty element means the file ended
	// with \n, and the link belongs before it.
	if insertAt == len(lines) && insertAt > 0 && lines[len(lines)-1] == "" {
		insertAt--
	}

	lines = slices.Insert(lines, insertAt, linkLine)
	merged := strings.Join(lines, "\n")
	if !strings.HasSuffix(merged, "\n") {
		merged += "\n"
	}
	return merged, true
}

func (j *Journal) writePage(pagePath, content string) bool {
	if err := fileutil.WriteText(pagePath, content); err != nil {
		j.Log.Error().Str("page", pagePath).Err(err).Msg("writing journal page")
		return false
	}
	return true
}

// pageDate reconstructs the calendar date from a journal page path of the
// form <root>/<year>/<month>/<day>.txt.
func pageDate(pagePath string) (time.Time, error) {
	day := strings.TrimSuffix(filepath.Base(pagePath), ".txt")
	monthDir := filepath.Dir(pagePath)
	yearDir := filepath.Dir(monthDir)

	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, fmt.Errorf("day component %q: %w", day, err)
	}
	m, err := strconv.Atoi(filepath.Base(monthDir))
	if err != nil {
		return time.Time{}, fmt.Errorf("month component %q: %w", filepath.Base(monthDir), err)
	}
	y, err := strconv.Atoi(filepath.Base(yearDir))
	if err != nil {
		return time.Time{}, fmt.Errorf("year component %q: %w", filepath.Base(yearDir), err)
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local), nil
}
