package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rcliao/chat-memory/internal/model"
)

const (
	defaultBaseName = "memory"
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// FileStore keeps an insertion-ordered key -> entry mapping in memory and
// writes it through to <base>.json, <base>.csv and <base>.txt on every
// mutation. The three writes are not atomic as a group: when one fails the
// others are kept and the failure is returned, and the encodings stay out
// of step until the next successful write-through or SaveAll.
type FileStore struct {
	mu        sync.Mutex
	dir       string
	baseName  string
	preferred model.Format
	entries   *Entries
	source    model.Format
	now       func() time.Time
	log       *slog.Logger
	journal   Journal
}

// New opens the store rooted at dir, creating the directory if needed, and
// loads it eagerly.
func New(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store: data dir cannot be empty")
	}

	s := &FileStore{
		dir:       dir,
		baseName:  defaultBaseName,
		preferred: model.FormatJSON,
		entries:   NewEntries(),
		now:       time.Now,
		log:       discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.preferred.Valid() {
		return nil, fmt.Errorf("%w: preferred format %q", ErrUnsupportedFormat, s.preferred)
	}

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s.Load()
	return s, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file backing encoding f.
func (s *FileStore) Path(f model.Format) string {
	return filepath.Join(s.dir, s.baseName+f.Ext())
}

// Source reports which encoding the last Load read, or "" if none did.
func (s *FileStore) Source() model.Format {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Load replaces the in-memory mapping with the first encoding, in priority
// order, that exists and decodes. Unreadable or malformed files are logged
// and skipped. If nothing loads the store is empty. Encodings are never
// merged.
func (s *FileStore) Load() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries, s.source = NewEntries(), ""
	for _, f := range s.loadOrder() {
		path := s.Path(f)
		entries, err := s.readFile(f, path, s.log.With("path", path))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			s.log.Warn("Failed to load memory file, trying next format", "path", path, "format", f, "err", err)
			continue
		}

		s.entries, s.source = entries, f
		s.log.Debug("Loaded memories", "path", path, "count", entries.Len())
		break
	}

	return s.list()
}

func (s *FileStore) loadOrder() []model.Format {
	order := []model.Format{s.preferred}
	for _, f := range model.Formats {
		if f != s.preferred {
			order = append(order, f)
		}
	}
	return order
}

func (s *FileStore) readFile(f model.Format, path string, log *slog.Logger) (*Entries, error) {
	c, err := NewCodec(f, s.stamp, log)
	if err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer fh.Close()

	return c.Decode(fh)
}

// Save writes the current mapping to the file for f, replacing it. The
// failure is logged as well as returned.
func (s *FileStore) Save(f model.Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(f)
}

// SaveAll writes every encoding. Each write is attempted; the result joins
// the failures.
func (s *FileStore) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAll()
}

func (s *FileStore) save(f model.Format) error {
	c, err := NewCodec(f, s.stamp, s.log)
	if err != nil {
		s.log.Error("Failed to save memories", "format", f, "err", err)
		return err
	}

	path := s.Path(f)
	var buf bytes.Buffer
	if err := c.Encode(&buf, s.entries); err != nil {
		err = fmt.Errorf("encode %s: %w", f, err)
		s.log.Error("Failed to save memories", "path", path, "err", err)
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		s.log.Error("Failed to save memories", "path", path, "err", err)
		return err
	}
	return nil
}

func (s *FileStore) saveAll() error {
	var errs []error
	for _, f := range model.Formats {
		if err := s.save(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// writeFileAtomic writes data to a sibling temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("%w: write temp file: %w", ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename temp file: %w", ErrIO, err)
	}
	return nil
}

// Remember inserts or overwrites key with a fresh timestamp and writes all
// three encodings. Writes that succeed are kept even if another fails; the
// returned error joins the failed ones. Empty keys and values are accepted.
func (s *FileStore) Remember(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.entries.Set(key, model.Entry{Key: key, Value: value, Timestamp: s.stamp()})
	err := s.saveAll()
	s.mu.Unlock()

	s.record(ctx, model.Event{Op: model.OpRemember, Key: key, Value: value})
	return err
}

// Recall returns the value stored under exactly key.
func (s *FileStore) Recall(key string) (string, bool) {
	e, ok := s.Get(key)
	return e.Value, ok
}

// Get returns the full entry stored under exactly key.
func (s *FileStore) Get(key string) (model.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Get(key)
}

// Forget deletes key and writes all three encodings. It reports whether the
// key existed; a missing key writes nothing.
func (s *FileStore) Forget(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	if _, ok := s.entries.Delete(key); !ok {
		s.mu.Unlock()
		return false, nil
	}
	err := s.saveAll()
	s.mu.Unlock()

	s.record(ctx, model.Event{Op: model.OpForget, Key: key})
	return true, err
}

// Entries returns a copy of every entry in store order.
func (s *FileStore) Entries() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// Len returns the number of entries.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Len()
}

func (s *FileStore) list() []model.Entry {
	out := make([]model.Entry, 0, s.entries.Len())
	for p := s.entries.Oldest(); p != nil; p = p.Next() {
		e := p.Value
		e.Key = p.Key
		out = append(out, e)
	}
	return out
}

func (s *FileStore) stamp() string {
	return s.now().Format(model.TimestampLayout)
}

func (s *FileStore) record(ctx context.Context, ev model.Event) {
	if s.journal == nil {
		return
	}
	ev.At = s.now().UTC()
	if err := s.journal.Record(ctx, ev); err != nil {
		s.log.Warn("Failed to journal memory change", "op", ev.Op, "key", ev.Key, "err", err)
	}
}
