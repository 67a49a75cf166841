package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the run logger: console writer on stderr plus an
// optional append-only file sink. Level follows the verbosity flags.
// The returned closer releases the file sink; safe to call always.
func newLogger(stderr io.Writer, f *runFlags) (zerolog.Logger, func(), error) {
	level := zerolog.WarnLevel
	switch {
	case f.verbose:
		level = zerolog.DebugLevel
	case f.quiet:
		level = zerolog.ErrorLevel
	}

	console := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}
	writer := io.Writer(console)
	closer := func() {}

	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304 -- operator-provided path
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("opening log file: %w", err)
		}
		writer = zerolog.MultiLevelWriter(console, file)
		closer = func() { _ = file.Close() }
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}
