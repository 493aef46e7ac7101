package store

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"

	"github.com/rcliao/chat-memory/internal/model"
)

var _ Memory = (*FileStore)(nil)

// Relevant yields "key: value" for every entry whose key and the query
// contain one another, ignoring case. The sequence is lazy and finite; each
// range walks a snapshot taken when iteration starts, so it can be ranged
// again after the store changes. An empty query is contained in every key
// and so yields every entry.
func (s *FileStore) Relevant(query string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for e := range s.RelevantEntries(query) {
			if !yield(e.Line()) {
				return
			}
		}
	}
}

// RelevantEntries is Relevant without the formatting.
func (s *FileStore) RelevantEntries(query string) iter.Seq[model.Entry] {
	return func(yield func(model.Entry) bool) {
		fold := cases.Fold()
		q := fold.String(query)
		for _, e := range s.Entries() {
			if !matches(fold.String(e.Key), q) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// matches is symmetric containment; an empty key is contained in any query.
func matches(key, query string) bool {
	return strings.Contains(query, key) || strings.Contains(key, query)
}
