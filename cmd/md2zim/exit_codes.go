package main

import (
	"errors"
	"os"

	md2zim "github.com/alnah/go-md2zim"
)

// Exit codes for the md2zim CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Run completed (per-note errors do not fail the run)
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or directories
	ExitIO      = 3 // File not found, permission denied
	ExitPandoc  = 4 // Pandoc missing or broken
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, md2zim.ErrPandocMissing) ||
		errors.Is(err, md2zim.ErrConversion) {
		return ExitPandoc
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2zim.ErrReadNote) ||
		errors.Is(err, md2zim.ErrWritePage) {
		return ExitIO
	}

	if errors.Is(err, ErrMissingFlag) ||
		errors.Is(err, ErrSourceDirMissing) ||
		errors.Is(err, md2zim.ErrNotebookDirMissing) {
		return ExitUsage
	}

	return ExitGeneral
}
