// Package store provides the multi-format, file-backed memory store.
package store

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rcliao/chat-memory/internal/model"
)

var (
	// ErrIO reports a file that could not be read or written.
	ErrIO = errors.New("memory file i/o")
	// ErrParse reports malformed json, csv, or txt content.
	ErrParse = errors.New("malformed memory file")
	// ErrUnsupportedFormat reports an unknown encoding or file extension.
	ErrUnsupportedFormat = errors.New("unsupported memory format")
)

// Entries is the insertion-ordered key -> entry mapping held by a store.
type Entries = orderedmap.OrderedMap[string, model.Entry]

// NewEntries returns an empty mapping.
func NewEntries() *Entries {
	return orderedmap.New[string, model.Entry]()
}

// Memory is the surface the chat-turn handler consumes: relevant memories
// before the model call, remember after a fact is extracted.
type Memory interface {
	Relevant(query string) iter.Seq[string]
	Remember(ctx context.Context, key, value string) error
}

// Journal receives a record of every mutation. Failures are logged by the
// store and never fail the mutation itself.
type Journal interface {
	Record(ctx context.Context, ev model.Event) error
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithPreferredFormat puts f first in load priority.
func WithPreferredFormat(f model.Format) Option {
	return func(s *FileStore) {
		s.preferred = f
	}
}

// WithBaseName sets the file name shared by the three encodings
// (default "memory", giving memory.json, memory.csv, memory.txt).
func WithBaseName(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.baseName = name
		}
	}
}

// WithLogger sets the logger used for load fall-through, skipped rows and
// write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithJournal records every mutation to j.
func WithJournal(j Journal) Option {
	return func(s *FileStore) {
		s.journal = j
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
