package md2zim

// ImportStatus is the terminal state of a single note import.
type ImportStatus int

const (
	// StatusError marks a note that could not be imported. The batch
	// continues with the next note.
	StatusError ImportStatus = iota
	// StatusSuccess marks a freshly written or regenerated page.
	StatusSuccess
	// StatusSkipped marks a note whose page is already up to date.
	StatusSkipped
)

// String returns the status name for logs and summaries.
func (s ImportStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	default:
		return "error"
	}
}

// Result holds the outcome of importing one source note.
type Result struct {
	Source   string
	Status   ImportStatus
	Slug     string
	PagePath string
	Err      error
}

// Summary tallies note outcomes across a run.
type Summary struct {
	Imported int
	Skipped  int
	Errored  int
}

// Add records a result in the summary.
func (s *Summary) Add(r Result) {
	switch r.Status {
	case StatusSuccess:
		s.Imported++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Errored++
	}
}

// Total returns the number of notes processed.
func (s Summary) Total() int {
	return s.Imported + s.Skipped + s.Errored
}
