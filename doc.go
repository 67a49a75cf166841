// Package md2zim imports Notable-style Markdown notes into a Zim Desktop
// Wiki notebook.
//
// # Quick Start
//
// Create an importer bound to a notebook directory and feed it note files:
//
//	imp, err := md2zim.New("/path/to/notebook")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := imp.EnsureNotebook(); err != nil {
//	    log.Fatal(err)
//	}
//
//	res := imp.ImportFile("/notes/My Note.md")
//	switch res.Status {
//	case md2zim.StatusSuccess:
//	    fmt.Println("imported", res.PagePath)
//	case md2zim.StatusSkipped:
//	    fmt.Println("up to date")
//	case md2zim.StatusError:
//	    fmt.Println("failed:", res.Err)
//	}
//
// # Import Pipeline
//
// Each note runs through these stages:
//
//  1. Read (UTF-8 with Latin-1 fallback) and split YAML front matter
//  2. Slug allocation against the run-scoped used set
//  3. Staleness check against the existing page (idempotent re-runs)
//  4. Markdown to Zim wiki text via the external pandoc converter
//  5. Duplicate heading removal on the converted body
//  6. Page assembly (Zim header, tags line, journal backlinks, body)
//  7. Journal page links for the note's created and modified days
//
// A note failure never aborts the batch; the caller inspects per-note
// Results and continues.
//
// # Configuration
//
// Use functional options to customize the importer:
//
//	imp, err := md2zim.New(zimDir,
//	    md2zim.WithLogger(logger),
//	    md2zim.WithNotesSubdir("raw_ai_notes"),
//	    md2zim.WithJournalSection("AI Notes"),
//	)
//
// # External Requirements
//
// Conversion requires pandoc on PATH (pandoc -f markdown -t zimwiki). Use
// Converter.Check before a run to fail fast when it is missing.
package md2zim
