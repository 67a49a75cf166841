package md2zim

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeConverter stands in for pandoc: it rewrites Markdown H1 lines into Zim
// top-level headings and passes everything else through.
type fakeConverter struct {
	checkErr   error
	convertErr error
	transform  func(string) string
	calls      int
}

func (c *fakeConverter) Check() error { return c.checkErr }

func (c *fakeConverter) Convert(inputPath, outputPath string) error {
	c.calls++
	if c.convertErr != nil {
		return c.convertErr
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	text := string(data)
	if c.transform != nil {
		text = c.transform(text)
	} else {
		text = h1ToZimHeading(text)
	}
	return os.WriteFile(outputPath, []byte(text), 0o644)
}

func h1ToZimHeading(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			lines[i] = "====== " + rest + " ======"
		}
	}
	return strings.Join(lines, "\n")
}

var testClock = func() time.Time {
	return time.Date(2025, 8, 25, 9, 30, 0, 0, time.UTC)
}

func newTestImporter(t *testing.T, opts ...Option) *Importer {
	t.Helper()
	opts = append([]Option{
		WithConverter(&fakeConverter{}),
		WithClock(testClock),
		WithTempDir(t.TempDir()),
		WithLogger(zerolog.Nop()),
	}, opts...)
	imp, err := New(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := imp.EnsureNotebook(); err != nil {
		t.Fatalf("EnsureNotebook: %v", err)
	}
	return imp
}

func writeNote(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleNote = `---
title: Test Note
tags: [tag1, parent/child]
created: 2025-08-18T11:21:28Z
modified: 2025-08-20T11:22:15Z
---
# Test Note

This is the content.
`

func TestNew_MissingNotebookDir(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, ErrNotebookDirMissing) {
		t.Errorf("New error = %v, want ErrNotebookDirMissing", err)
	}
}

func TestEnsureNotebook(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)

	if fi, err := os.Stat(imp.NotesDir()); err != nil || !fi.IsDir() {
		t.Errorf("notes dir not created: %v", err)
	}
	if fi, err := os.Stat(imp.journal.Root); err != nil || !fi.IsDir() {
		t.Errorf("journal dir not created: %v", err)
	}

	rootPage := filepath.Join(imp.zimDir, DefaultNotesSubdir+".txt")
	content := readPage(t, rootPage)
	if !strings.Contains(content, "====== Raw Ai Notes ======") {
		t.Errorf("root page missing title:\n%s", content)
	}

	// A second call must not rewrite the existing root page.
	if err := os.WriteFile(rootPage, []byte("user edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := imp.EnsureNotebook(); err != nil {
		t.Fatalf("EnsureNotebook (second): %v", err)
	}
	if got := readPage(t, rootPage); got != "user edited\n" {
		t.Errorf("existing root page overwritten: %q", got)
	}
}

func TestImportFile_WritesCompletePage(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	res := imp.ImportFile(src)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (err %v), want success", res.Status, res.Err)
	}
	if res.Slug != "test_note" {
		t.Errorf("slug = %q, want test_note", res.Slug)
	}

	page := readPage(t, res.PagePath)

	for _, want := range []string{
		"Content-Type: text/x-zim-wiki\n",
		"Wiki-Format: zim 0.6\n",
		"====== Test Note ======\n",
		"**Tags:** @tag1 @child\n",
		"**Journal Links:**\n",
		"Created on August 18 2025",
		"Modified on August 20 2025",
		"This is the content.",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q:\n%s", want, page)
		}
	}

	// Header first, then tags, then backlinks, then body.
	order := []string{"======", "**Tags:**", "**Journal Links:**", "This is the content."}
	last := -1
	for _, marker := range order {
		idx := strings.Index(page, marker)
		if idx <= last {
			t.Fatalf("marker %q out of order in page:\n%s", marker, page)
		}
		last = idx
	}

	// The duplicated H1 must not survive as a second heading.
	if n := strings.Count(page, "====== Test Note ======"); n != 1 {
		t.Errorf("title heading appears %d times, want 1:\n%s", n, page)
	}
}

func TestImportFile_RecordsJournalForBothDays(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	if res := imp.ImportFile(src); res.Status != StatusSuccess {
		t.Fatalf("status = %v (err %v)", res.Status, res.Err)
	}

	createdDay := time.Date(2025, 8, 18, 11, 21, 28, 0, time.UTC).Local()
	modifiedDay := time.Date(2025, 8, 20, 11, 22, 15, 0, time.UTC).Local()

	for _, day := range []time.Time{createdDay, modifiedDay} {
		path := filepath.Join(imp.journal.Root,
			day.Format("2006"), day.Format("01"), day.Format("02")+".txt")
		content := readPage(t, path)
		if !strings.Contains(content, "* [[raw_ai_notes:test_note|Test Note]]") {
			t.Errorf("journal page %s missing link:\n%s", path, content)
		}
		if !strings.Contains(content, "===== AI Notes =====") {
			t.Errorf("journal page %s missing section:\n%s", path, content)
		}
	}
}

func TestImportFile_DuplicateTitlesGetSuffixedSlugs(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	notes := t.TempDir()
	first := writeNote(t, notes, "a.md", "---\ntitle: Untitled\n---\nFirst body\n")
	second := writeNote(t, notes, "b.md", "---\ntitle: Untitled\n---\nSecond body\n")

	r1 := imp.ImportFile(first)
	r2 := imp.ImportFile(second)
	if r1.Status != StatusSuccess || r2.Status != StatusSuccess {
		t.Fatalf("statuses = %v/%v (errs %v/%v)", r1.Status, r2.Status, r1.Err, r2.Err)
	}
	if r1.Slug != "untitled" || r2.Slug != "untitled_1" {
		t.Fatalf("slugs = %q/%q, want untitled/untitled_1", r1.Slug, r2.Slug)
	}
	if !strings.Contains(readPage(t, r1.PagePath), "First body") {
		t.Error("first page lost its body")
	}
	if !strings.Contains(readPage(t, r2.PagePath), "Second body") {
		t.Error("second page lost its body")
	}
}

func TestImportFile_SecondRunSkips(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	if res := imp.ImportFile(src); res.Status != StatusSuccess {
		t.Fatalf("first run status = %v (err %v)", res.Status, res.Err)
	}

	// Fresh importer over the same notebook, as a re-run would create.
	again, err := New(imp.zimDir,
		WithConverter(&fakeConverter{}),
		WithClock(testClock),
		WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := again.ImportFile(src)
	if res.Status != StatusSkipped {
		t.Errorf("second run status = %v (err %v), want skipped", res.Status, res.Err)
	}

	// Journal pages must not grow duplicate link lines either way.
	day := time.Date(2025, 8, 18, 11, 21, 28, 0, time.UTC).Local()
	path := filepath.Join(imp.journal.Root,
		day.Format("2006"), day.Format("01"), day.Format("02")+".txt")
	if n := strings.Count(readPage(t, path), "* [[raw_ai_notes:test_note|Test Note]]"); n != 1 {
		t.Errorf("journal link appears %d times, want 1", n)
	}
}

func TestImportFile_UpdatedNoteReimported(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	if res := imp.ImportFile(src); res.Status != StatusSuccess {
		t.Fatalf("first run status = %v (err %v)", res.Status, res.Err)
	}

	future := time.Now().Add(time.Hour).UTC().Format("2006-01-02T15:04:05Z07:00")
	updated := strings.Replace(sampleNote, "modified: 2025-08-20T11:22:15Z", "modified: "+future, 1)
	updated = strings.Replace(updated, "This is the content.", "This is the new content.", 1)
	if err := os.WriteFile(src, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	again, err := New(imp.zimDir,
		WithConverter(&fakeConverter{}),
		WithClock(testClock),
		WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := again.ImportFile(src)
	if res.Status != StatusSuccess {
		t.Fatalf("re-run status = %v (err %v), want success", res.Status, res.Err)
	}
	if !strings.Contains(readPage(t, res.PagePath), "This is the new content.") {
		t.Error("page not regenerated with new content")
	}
}

func TestImportFile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unreadable source", func(t *testing.T) {
		t.Parallel()
		imp := newTestImporter(t)
		res := imp.ImportFile(filepath.Join(t.TempDir(), "absent.md"))
		if res.Status != StatusError || !errors.Is(res.Err, ErrReadNote) {
			t.Errorf("res = %v/%v, want error/ErrReadNote", res.Status, res.Err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		imp := newTestImporter(t)
		src := writeNote(t, t.TempDir(), "empty.md", "---\ntitle: Empty\n---\n   \n")
		res := imp.ImportFile(src)
		if res.Status != StatusError || !errors.Is(res.Err, ErrEmptyNote) {
			t.Errorf("res = %v/%v, want error/ErrEmptyNote", res.Status, res.Err)
		}
	})

	t.Run("converter failure", func(t *testing.T) {
		t.Parallel()
		conv := &fakeConverter{convertErr: errors.New("boom")}
		imp := newTestImporter(t, WithConverter(conv))
		src := writeNote(t, t.TempDir(), "note.md", sampleNote)
		res := imp.ImportFile(src)
		if res.Status != StatusError || res.Err == nil {
			t.Errorf("res = %v/%v, want error", res.Status, res.Err)
		}
	})

	t.Run("empty converter output", func(t *testing.T) {
		t.Parallel()
		conv := &fakeConverter{transform: func(string) string { return "\n" }}
		imp := newTestImporter(t, WithConverter(conv))
		src := writeNote(t, t.TempDir(), "note.md", sampleNote)
		res := imp.ImportFile(src)
		if res.Status != StatusError || !errors.Is(res.Err, ErrConversion) {
			t.Errorf("res = %v/%v, want error/ErrConversion", res.Status, res.Err)
		}
	})
}

func TestImportFile_WithoutJournalLinks(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t, WithoutJournalLinks())
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	res := imp.ImportFile(src)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (err %v)", res.Status, res.Err)
	}
	if strings.Contains(readPage(t, res.PagePath), "**Journal Links:**") {
		t.Error("page contains backlink section despite WithoutJournalLinks")
	}
}

func TestImportFile_NoFrontMatterUsesStem(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "shopping_list.md", "Buy milk\n")

	res := imp.ImportFile(src)
	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (err %v)", res.Status, res.Err)
	}
	if res.Slug != "shopping_list" {
		t.Errorf("slug = %q, want shopping_list", res.Slug)
	}
	if !strings.Contains(readPage(t, res.PagePath), "====== shopping_list ======") {
		t.Error("page title not derived from file stem")
	}
}

func TestPlan_DoesNotWrite(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	res := imp.Plan(src)
	if res.Status != StatusSuccess {
		t.Fatalf("Plan status = %v (err %v), want success", res.Status, res.Err)
	}
	if res.Slug != "test_note" {
		t.Errorf("Plan slug = %q, want test_note", res.Slug)
	}
	if _, err := os.Stat(res.PagePath); !os.IsNotExist(err) {
		t.Errorf("Plan wrote the page: %v", err)
	}
	if conv := imp.conv.(*fakeConverter); conv.calls != 0 {
		t.Errorf("Plan invoked the converter %d times", conv.calls)
	}
}

func TestResolveCreated_MetadataWins(t *testing.T) {
	t.Parallel()

	imp := newTestImporter(t)
	src := writeNote(t, t.TempDir(), "test_note.md", sampleNote)

	got := imp.ResolveCreated(src)
	want := time.Date(2025, 8, 18, 11, 21, 28, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ResolveCreated() = %v, want %v", got, want)
	}
}

func readPage(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
