package store

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rcliao/chat-memory/internal/model"
)

// Export writes the store's own file for f. It is Save under the name the
// chat handler uses.
func (s *FileStore) Export(f model.Format) error {
	return s.Save(f)
}

// ExportTo encodes the current mapping as f onto w.
func (s *FileStore) ExportTo(w io.Writer, f model.Format) error {
	c, err := NewCodec(f, s.stamp, s.log)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return c.Encode(w, s.entries)
}

// Import reads the file at path, choosing the encoding by extension, and
// merges it into the store: imported entries overwrite existing ones with
// the same key. The merged mapping is then written to all three encodings.
// An unsupported extension or unreadable file leaves the store untouched.
// Import returns the number of entries read from path.
func (s *FileStore) Import(ctx context.Context, path string) (int, error) {
	f, ok := model.FormatFromPath(path)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	log := s.log.With("path", path)
	imported, err := s.readFile(f, path, log)
	if err != nil {
		log.Error("Failed to import memories", "err", err)
		return 0, fmt.Errorf("import %s: %w", path, err)
	}

	s.mu.Lock()
	for p := imported.Oldest(); p != nil; p = p.Next() {
		s.entries.Set(p.Key, p.Value)
	}
	err = s.saveAll()
	s.mu.Unlock()

	if err == nil {
		log.Info("Imported memories", "format", f, "count", imported.Len())
	}
	for p := imported.Oldest(); p != nil; p = p.Next() {
		s.record(ctx, model.Event{Op: model.OpImport, Key: p.Key, Value: p.Value.Value, Source: path})
	}
	return imported.Len(), err
}
