package md2zim

import "errors"

// Sentinel errors for import operations.
var (
	ErrNotebookDirMissing = errors.New("notebook directory does not exist")
	ErrEmptyNote          = errors.New("note has no content")
	ErrReadNote           = errors.New("failed to read note")
	ErrConversion         = errors.New("pandoc conversion failed")
	ErrPandocMissing      = errors.New("pandoc not found in PATH")
	ErrWritePage          = errors.New("failed to write note page")
)
