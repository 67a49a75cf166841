package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ErrMissingFlag indicates a required flag was not provided.
var ErrMissingFlag = errors.New("missing required flag")

// runFlags holds all flags for an import run.
type runFlags struct {
	notableDir     string
	zimDir         string
	notesSubdir    string
	journalSection string
	logFile        string
	dryRun         bool
	noBacklinks    bool
	quiet          bool
	verbose        bool
}

// parseFlags parses command-line flags. Returns flag.ErrHelp when --help
// was requested.
func parseFlags(args []string) (*runFlags, error) {
	fs := flag.NewFlagSet("md2zim", flag.ContinueOnError)
	f := &runFlags{}

	fs.StringVar(&f.notableDir, "notable-dir", "", "directory containing Notable .md notes")
	fs.StringVar(&f.zimDir, "zim-dir", "", "root directory of the Zim notebook")
	fs.StringVar(&f.notesSubdir, "notes-subdir", "raw_ai_notes", "notebook subdirectory for imported pages")
	fs.StringVar(&f.journalSection, "journal-section", "AI Notes", "journal section title for note links")
	fs.StringVar(&f.logFile, "log-file", "", "optional append-only run log file")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "show what would be imported without writing")
	fs.BoolVar(&f.noBacklinks, "no-backlinks", false, "omit the Journal Links section on note pages")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-note detail")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if f.notableDir == "" {
		return nil, fmt.Errorf("%w: --notable-dir", ErrMissingFlag)
	}
	if f.zimDir == "" {
		return nil, fmt.Errorf("%w: --zim-dir", ErrMissingFlag)
	}

	return f, nil
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: md2zim --notable-dir DIR --zim-dir DIR [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Import Notable Markdown notes into a Zim Desktop Wiki notebook.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprint(out, fs.FlagUsages())
}
