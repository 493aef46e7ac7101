package store

import (
	"strings"
	"unicode/utf8"

	"github.com/rcliao/chat-memory/internal/model"
)

const (
	// DefaultContextBudget is the rune budget used when none is given.
	DefaultContextBudget = 1000
	minExcerpt           = 20
)

// ContextParams holds parameters for context assembly.
type ContextParams struct {
	Query  string
	Budget int // max runes of "key: value" text in the output
}

// ContextMemory is one memory placed in the context.
type ContextMemory struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Excerpt bool   `json:"excerpt,omitempty"`
}

// ContextResult is the assembled context.
type ContextResult struct {
	Budget   int             `json:"budget"`
	Used     int             `json:"used"`
	Memories []ContextMemory `json:"memories"`
}

// Context packs relevant memories, in store order, into the budget. The
// memory that overflows is cut to an excerpt when enough room remains;
// packing stops there.
func (s *FileStore) Context(p ContextParams) *ContextResult {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultContextBudget
	}

	result := &ContextResult{Budget: budget, Memories: []ContextMemory{}}
	for e := range s.RelevantEntries(p.Query) {
		size := utf8.RuneCountInString(e.Line())
		if result.Used+size <= budget {
			result.Memories = append(result.Memories, ContextMemory{Key: e.Key, Value: e.Value})
			result.Used += size
			continue
		}

		remaining := budget - result.Used - utf8.RuneCountInString(e.Key+": ")
		if remaining >= minExcerpt {
			value := truncateRunes(e.Value, remaining-1) + "…"
			result.Memories = append(result.Memories, ContextMemory{Key: e.Key, Value: value, Excerpt: true})
			result.Used += utf8.RuneCountInString(model.Entry{Key: e.Key, Value: value}.Line())
		}
		break
	}

	return result
}

// Prompt renders the memories as a bullet list for the model prompt, or ""
// when there are none.
func (r *ContextResult) Prompt() string {
	if len(r.Memories) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range r.Memories {
		b.WriteString("- ")
		b.WriteString(model.Entry{Key: m.Key, Value: m.Value}.Line())
		b.WriteByte('\n')
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
