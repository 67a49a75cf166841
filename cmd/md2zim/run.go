package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	md2zim "github.com/alnah/go-md2zim"
)

// ErrSourceDirMissing indicates the Notable directory is absent or not a
// directory.
var ErrSourceDirMissing = errors.New("notable directory does not exist")

// run executes one import run end to end: validate, check pandoc, discover,
// import, summarize. Per-note failures are counted, not returned; only
// setup failures produce an error. A panic anywhere in the run is converted
// to an error so temp cleanup still happens.
func run(f *runFlags, log zerolog.Logger, env *Environment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()

	notableDir, err := filepath.Abs(f.notableDir)
	if err != nil {
		return fmt.Errorf("resolving notable dir: %w", err)
	}
	if info, statErr := os.Stat(notableDir); statErr != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceDirMissing, notableDir)
	}
	zimDir, err := filepath.Abs(f.zimDir)
	if err != nil {
		return fmt.Errorf("resolving zim dir: %w", err)
	}

	// Run-scoped temp area for conversion intermediates. Removed on every
	// exit path, including the panic guard above.
	tempDir, err := os.MkdirTemp("", "md2zim-run-*")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			log.Warn().Str("dir", tempDir).Err(rmErr).Msg("could not remove temp directory")
		}
	}()

	imp, err := md2zim.New(zimDir, importerOptions(f, env, log, tempDir)...)
	if err != nil {
		return err
	}
	if err := imp.Converter().Check(); err != nil {
		return err
	}

	if !f.dryRun {
		if err := imp.EnsureNotebook(); err != nil {
			return err
		}
	}

	notes, err := discoverNotes(notableDir, imp)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		log.Warn().Str("dir", notableDir).Msg("no markdown files found")
		return nil
	}

	if f.dryRun {
		fmt.Fprintln(env.Stdout, "[dry run] no files will be modified")
	}

	var summary md2zim.Summary
	for i, note := range notes {
		if f.verbose {
			fmt.Fprintf(env.Stdout, "[%d/%d] %s\n", i+1, len(notes), filepath.Base(note.path))
		}

		var res md2zim.Result
		if f.dryRun {
			res = imp.Plan(note.path)
		} else {
			res = imp.ImportFile(note.path)
		}
		if res.Err != nil {
			log.Error().Str("note", note.path).Err(res.Err).Msg("import failed")
		}
		summary.Add(res)
	}

	printSummary(env, f, summary)
	return nil
}

// importerOptions maps CLI flags onto importer options.
func importerOptions(f *runFlags, env *Environment, log zerolog.Logger, tempDir string) []md2zim.Option {
	opts := []md2zim.Option{
		md2zim.WithLogger(log),
		md2zim.WithClock(env.Now),
		md2zim.WithTempDir(tempDir),
		md2zim.WithNotesSubdir(f.notesSubdir),
		md2zim.WithJournalSection(f.journalSection),
	}
	if f.noBacklinks {
		opts = append(opts, md2zim.WithoutJournalLinks())
	}
	return opts
}

func printSummary(env *Environment, f *runFlags, s md2zim.Summary) {
	if f.quiet {
		return
	}
	verb := "imported"
	if f.dryRun {
		verb = "would import"
	}
	fmt.Fprintf(env.Stdout, "\n%d notes: %d %s, %d skipped, %d errors\n",
		s.Total(), s.Imported, verb, s.Skipped, s.Errored)
}
