package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	md2zim "github.com/alnah/go-md2zim"
)

// noteFile is a discovered source note with its resolved created instant.
type noteFile struct {
	path    string
	created time.Time
}

// discoverNotes finds Markdown notes under dir and orders them ascending by
// resolved created time, so journal links accrete chronologically. Path is
// the tie-breaker to keep re-runs deterministic.
func discoverNotes(dir string, imp *md2zim.Importer) ([]noteFile, error) {
	var notes []noteFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".md" && ext != ".markdown" {
			return nil
		}
		notes = append(notes, noteFile{path: path, created: imp.ResolveCreated(path)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].created.Equal(notes[j].created) {
			return notes[i].created.Before(notes[j].created)
		}
		return notes[i].path < notes[j].path
	})
	return notes, nil
}
