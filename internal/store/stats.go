package store

import (
	"os"
	"strings"
	"time"

	"github.com/rcliao/chat-memory/internal/model"
)

// Stats holds store statistics.
type Stats struct {
	Dir     string       `json:"dir"`
	Entries int          `json:"entries"`
	Source  model.Format `json:"source,omitempty"`
	Oldest  string       `json:"oldest,omitempty"`
	Newest  string       `json:"newest,omitempty"`
	Files   []FileStats  `json:"files"`
}

// FileStats describes one encoding's file.
type FileStats struct {
	Format    model.Format `json:"format"`
	Path      string       `json:"path"`
	Exists    bool         `json:"exists"`
	SizeBytes int64        `json:"size_bytes"`
	ModTime   *time.Time   `json:"mod_time,omitempty"`
	// InSync is false when the file is missing, unreadable, or holds a
	// different key set or values than memory.
	InSync bool `json:"in_sync"`
}

// Stats returns store statistics, including whether each encoding on disk
// still matches memory.
func (s *FileStore) Stats() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &Stats{Dir: s.dir, Entries: s.entries.Len(), Source: s.source}

	var oldest, newest time.Time
	for p := s.entries.Oldest(); p != nil; p = p.Next() {
		t, err := p.Value.Time()
		if err != nil {
			continue
		}
		if oldest.IsZero() || t.Before(oldest) {
			oldest, st.Oldest = t, p.Value.Timestamp
		}
		if newest.IsZero() || t.After(newest) {
			newest, st.Newest = t, p.Value.Timestamp
		}
	}

	for _, f := range model.Formats {
		fs := FileStats{Format: f, Path: s.Path(f)}
		if info, err := os.Stat(fs.Path); err == nil && info.Mode().IsRegular() {
			mod := info.ModTime()
			fs.Exists, fs.SizeBytes, fs.ModTime = true, info.Size(), &mod
			if onDisk, err := s.readFile(f, fs.Path, discardLogger()); err == nil {
				fs.InSync = sameContent(f, s.entries, onDisk)
			}
		}
		st.Files = append(st.Files, fs)
	}

	return st
}

// sameContent compares keys and values, ignoring timestamps. The txt
// encoding trims and flattens keys and values, so the comparison does too.
func sameContent(f model.Format, mem, disk *Entries) bool {
	if mem.Len() != disk.Len() {
		return false
	}
	for p := mem.Oldest(); p != nil; p = p.Next() {
		key, want := p.Key, p.Value.Value
		if f == model.FormatText {
			key = strings.TrimSpace(flattenNewlines.Replace(key))
			want = strings.TrimSpace(flattenNewlines.Replace(want))
		}
		got, ok := disk.Get(key)
		if !ok || got.Value != want {
			return false
		}
	}
	return true
}
