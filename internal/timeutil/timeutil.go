// Package timeutil resolves note timestamps to absolute UTC instants.
//
// Timestamps come from three sources, tried in order: note metadata, the
// source file's filesystem times, and the current clock. Metadata values
// without an explicit zone offset are taken as UTC, never as local time.
// Local time is used only when deriving journal calendar dates.
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/djherbis/times"
)

// Kind selects which filesystem timestamp backs a metadata fallback.
type Kind int

const (
	KindCreated Kind = iota
	KindModified
)

// String returns the metadata key the kind corresponds to.
func (k Kind) String() string {
	if k == KindModified {
		return "modified"
	}
	return "created"
}

// ErrUnparsable indicates a metadata value that cannot be read as a timestamp.
var ErrUnparsable = errors.New("unparsable timestamp")

// Layouts accepted for string timestamps, tried in order. The zoneless
// layouts are parsed as UTC.
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseValue interprets a front-matter value as an absolute instant.
// Accepts native time values and ISO-8601-like strings with optional
// fractional seconds and optional zone offset. Zoneless values are UTC.
func ParseValue(v any) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: nil value", ErrUnparsable)
	case time.Time:
		return val.UTC(), nil
	case *time.Time:
		if val == nil {
			return time.Time{}, fmt.Errorf("%w: nil value", ErrUnparsable)
		}
		return val.UTC(), nil
	case string:
		return parseString(val)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparsable, v)
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparsable)
	}
	for _, layout := range stringLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, s)
}

// FileTime returns the filesystem timestamp backing the given kind.
// Creation requests use the birth time where the platform exposes one and
// fall back to the modification time elsewhere.
func FileTime(path string, kind Kind) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if kind == KindCreated && ts.HasBirthTime() {
		return ts.BirthTime().UTC(), nil
	}
	return ts.ModTime().UTC(), nil
}

// Resolver resolves timestamps through an explicit ordered strategy list:
// metadata value, filesystem time, current clock. It never fails; each
// strategy degrades to the next and the terminal strategy always succeeds.
type Resolver struct {
	// Now supplies the terminal fallback instant. Defaults to time.Now.
	Now func() time.Time

	// OnFallback, when set, is invoked with a description each time a
	// strategy fails and the next one is tried. Used for warn logging.
	OnFallback func(reason string)
}

// Resolve returns the absolute UTC instant for a metadata value, falling
// back to path's filesystem time and finally the current clock.
func (r *Resolver) Resolve(metaValue any, path string, kind Kind) time.Time {
	if metaValue != nil {
		t, err := ParseValue(metaValue)
		if err == nil {
			return t
		}
		r.fallback(fmt.Sprintf("metadata %s: %v", kind, err))
	}

	t, err := FileTime(path, kind)
	if err == nil {
		return t
	}
	r.fallback(fmt.Sprintf("filesystem %s time: %v", kind, err))

	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Resolver) fallback(reason string) {
	if r.OnFallback != nil {
		r.OnFallback(reason)
	}
}

// ToLocal converts a UTC instant to the process-local timezone. Journal
// pages are keyed by the local calendar day, matching what the operator
// sees in the Zim journal plugin.
func ToLocal(t time.Time) time.Time {
	return t.In(time.Local)
}

// SameLocalDay reports whether two instants fall on the same local
// calendar day.
func SameLocalDay(a, b time.Time) bool {
	ya, ma, da := ToLocal(a).Date()
	yb, mb, db := ToLocal(b).Date()
	return ya == yb && ma == mb && da == db
}
