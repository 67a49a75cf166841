package md2zim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-md2zim/internal/fileutil"
	"github.com/alnah/go-md2zim/internal/frontmatter"
	"github.com/alnah/go-md2zim/internal/slug"
	"github.com/alnah/go-md2zim/internal/timeutil"
	"github.com/alnah/go-md2zim/internal/zim"
)

// Default notebook layout.
const (
	DefaultNotesSubdir = "raw_ai_notes"
	JournalSubdir      = "Journal"
)

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger. The importer never touches global logging
// state; callers own sink and level configuration.
func WithLogger(log zerolog.Logger) Option {
	return func(imp *Importer) { imp.log = log }
}

// WithConverter replaces the pandoc converter, e.g. for tests.
func WithConverter(c Converter) Option {
	return func(imp *Importer) { imp.conv = c }
}

// WithNotesSubdir sets the notebook subdirectory note pages are written to.
func WithNotesSubdir(name string) Option {
	return func(imp *Importer) { imp.notesSubdir = name }
}

// WithJournalSection sets the journal section title link lines live under.
func WithJournalSection(title string) Option {
	return func(imp *Importer) { imp.sectionTitle = title }
}

// WithoutJournalLinks disables the in-page **Journal Links:** backlink
// section on imported notes.
func WithoutJournalLinks() Option {
	return func(imp *Importer) { imp.journalLinks = false }
}

// WithTempDir sets the directory for conversion intermediates. The caller
// owns its lifecycle; the importer only removes the per-note files it
// creates inside it.
func WithTempDir(dir string) Option {
	return func(imp *Importer) { imp.tempDir = dir }
}

// WithClock injects a fixed clock for testing.
func WithClock(now func() time.Time) Option {
	return func(imp *Importer) { imp.now = now }
}

// Importer sequences the per-note import pipeline against one notebook.
// Not safe for concurrent use: the slug used-set mutates in note order.
type Importer struct {
	zimDir       string
	notesSubdir  string
	sectionTitle string
	journalLinks bool
	tempDir      string

	conv Converter
	log  zerolog.Logger
	now  func() time.Time

	journal *zim.Journal
	used    map[string]struct{}
}

// New creates an Importer writing into the notebook at zimDir.
func New(zimDir string, opts ...Option) (*Importer, error) {
	if !fileutil.DirExists(zimDir) {
		return nil, fmt.Errorf("%w: %s", ErrNotebookDirMissing, zimDir)
	}

	imp := &Importer{
		zimDir:       zimDir,
		notesSubdir:  DefaultNotesSubdir,
		sectionTitle: zim.DefaultSection,
		journalLinks: true,
		conv:         NewPandocConverter(),
		log:          zerolog.Nop(),
		now:          time.Now,
		used:         make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(imp)
	}

	imp.journal = &zim.Journal{
		Root:    filepath.Join(zimDir, JournalSubdir),
		Section: imp.sectionTitle,
		Now:     imp.now,
		Log:     imp.log,
	}
	return imp, nil
}

// Converter returns the configured converter, for pre-run checks.
func (imp *Importer) Converter() Converter { return imp.conv }

// NotesDir returns the absolute directory note pages are written to.
func (imp *Importer) NotesDir() string {
	return filepath.Join(imp.zimDir, imp.notesSubdir)
}

// EnsureNotebook creates the notes and journal directories and the notes
// root index page Zim needs to show the subtree. Safe to call repeatedly.
func (imp *Importer) EnsureNotebook() error {
	if err := os.MkdirAll(imp.NotesDir(), fileutil.DirPermissions); err != nil {
		return fmt.Errorf("creating notes directory: %w", err)
	}
	if err := os.MkdirAll(imp.journal.Root, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	rootPage := filepath.Join(imp.zimDir, imp.notesSubdir+".txt")
	if fileutil.FileExists(rootPage) {
		return nil
	}
	title := cases.Title(language.English).String(strings.ReplaceAll(imp.notesSubdir, "_", " "))
	content := zim.Header(title, timeutil.ToLocal(imp.now())) + "\n"
	if err := fileutil.WriteText(rootPage, content); err != nil {
		return fmt.Errorf("creating notes root page: %w", err)
	}
	imp.log.Info().Str("page", rootPage).Msg("created notes root page")
	return nil
}

// Plan reports what ImportFile would do for path without writing anything.
// It consumes a slug from the run-scoped used set exactly like a real
// import, so dry runs mirror real allocation order.
func (imp *Importer) Plan(path string) Result {
	res := Result{Source: path, Status: StatusError}

	raw, err := fileutil.ReadText(path)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrReadNote, err)
		return res
	}
	meta, _ := frontmatter.Parse(raw, noteStem(path))

	res.Slug = slug.Allocate(meta.Title, imp.used)
	res.PagePath = filepath.Join(imp.NotesDir(), res.Slug+".txt")
	if needsUpdate(path, res.PagePath, meta.Modified) {
		res.Status = StatusSuccess
	} else {
		res.Status = StatusSkipped
	}
	return res
}

// ImportFile runs the full pipeline for one source note. Failures are
// terminal for this note only and never propagate; the returned Result
// carries the error. Recovers from internal panics so one malformed note
// cannot abort the batch.
func (imp *Importer) ImportFile(path string) (res Result) {
	res = Result{Source: path, Status: StatusError}
	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusError
			res.Err = fmt.Errorf("internal error: %v", r)
		}
	}()

	raw, err := fileutil.ReadText(path)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrReadNote, err)
		return res
	}

	stem := noteStem(path)
	meta, body := frontmatter.Parse(raw, stem)
	if meta.BadTags {
		imp.log.Warn().Str("note", path).Msg("tags field is not a list, ignoring")
	}
	if strings.TrimSpace(body) == "" {
		res.Err = fmt.Errorf("%w: %s", ErrEmptyNote, path)
		return res
	}

	res.Slug = slug.Allocate(meta.Title, imp.used)
	res.PagePath = filepath.Join(imp.NotesDir(), res.Slug+".txt")

	if !needsUpdate(path, res.PagePath, meta.Modified) {
		imp.log.Debug().Str("note", path).Str("page", res.PagePath).Msg("page up to date")
		res.Status = StatusSkipped
		return res
	}

	created := imp.resolve(meta.Created, path, timeutil.KindCreated)
	modified := imp.resolve(meta.Modified, path, timeutil.KindModified)

	converted, err := imp.convert(body)
	if err != nil {
		res.Err = err
		return res
	}

	pageBody := zim.RemoveDuplicateHeading(converted, meta.Title, res.Slug)
	page := imp.composePage(meta.Title, pageBody, meta.Tags, created, modified)
	if err := fileutil.WriteText(res.PagePath, page); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWritePage, err)
		return res
	}

	// Journal failure stays a warning: the note page itself was written,
	// so the import counts as a success.
	imp.recordJournal(meta.Title, res.Slug, created, modified)

	imp.log.Info().Str("note", path).Str("page", res.PagePath).Msg("imported note")
	res.Status = StatusSuccess
	return res
}

// convert round-trips the metadata-stripped body through the external
// converter via per-note temp files. Temp removal is best effort; the
// run-scoped temp dir is cleaned up wholesale by the caller.
func (imp *Importer) convert(body string) (string, error) {
	inPath, cleanup, err := fileutil.WriteTempFile(imp.tempDir, body, "md")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	defer cleanup()

	outPath := strings.TrimSuffix(inPath, ".md") + ".txt"
	defer func() {
		if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
			imp.log.Warn().Str("path", outPath).Err(err).Msg("could not remove temp file")
		}
	}()

	if err := imp.conv.Convert(inPath, outPath); err != nil {
		return "", err
	}

	converted, err := fileutil.ReadText(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: reading converter output: %v", ErrConversion, err)
	}
	if strings.TrimSpace(converted) == "" {
		return "", fmt.Errorf("%w: converter produced no output", ErrConversion)
	}
	return converted, nil
}

// composePage assembles the final page: header, tags line, journal
// backlinks, body.
func (imp *Importer) composePage(title, body string, tags []string, created, modified time.Time) string {
	var b strings.Builder
	b.WriteString(zim.Header(title, timeutil.ToLocal(imp.now())))
	b.WriteString("\n")

	if ts := zim.TagString(tags); ts != "" {
		b.WriteString("**Tags:** " + ts + "\n")
	}
	if imp.journalLinks {
		b.WriteString(zim.LinksSection(created, modified))
	}

	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// recordJournal links the note from the journal pages for its created day
// and, when it differs, its modified day.
func (imp *Importer) recordJournal(title, noteSlug string, created, modified time.Time) {
	ref := imp.notesSubdir + ":" + noteSlug

	if !imp.journal.AppendLink(created, title, ref) {
		imp.log.Warn().Str("slug", noteSlug).Msg("could not add journal link for created date")
	}
	if timeutil.SameLocalDay(created, modified) {
		return
	}
	if !imp.journal.AppendLink(modified, title, ref) {
		imp.log.Warn().Str("slug", noteSlug).Msg("could not add journal link for modified date")
	}
}

func (imp *Importer) resolve(v any, path string, kind timeutil.Kind) time.Time {
	r := &timeutil.Resolver{
		Now: imp.now,
		OnFallback: func(reason string) {
			imp.log.Warn().Str("note", path).Msg("timestamp fallback: " + reason)
		},
	}
	return r.Resolve(v, path, kind)
}

// ResolveCreated returns the created instant used for chronological
// ordering of a source note, with the same fallback chain as the import.
func (imp *Importer) ResolveCreated(path string) time.Time {
	raw, err := fileutil.ReadText(path)
	if err != nil {
		return imp.resolve(nil, path, timeutil.KindCreated)
	}
	meta, _ := frontmatter.Parse(raw, noteStem(path))
	return imp.resolve(meta.Created, path, timeutil.KindCreated)
}

func noteStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
