// Package mcp implements the shared context store: an append-only record
// of typed, importance-scored text snippets visible to every responder in
// a run. Retrieval is always importance-descending with insertion-order
// ties, so the most relevant snippets surface first in prompt text.
package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentrelay/core"
)

// Entry is a single context snippet. Entries are immutable once added.
type Entry struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Importance float64   `json:"importance"`
	Source     string    `json:"source,omitempty"`
	ThreadID   string    `json:"thread_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// Query filters entry retrieval. Zero-value fields match everything.
type Query struct {
	Type          string
	Source        string
	ThreadID      string
	MinImportance float64
}

func (q Query) matches(e Entry) bool {
	if q.Type != "" && e.Type != q.Type {
		return false
	}
	if q.Source != "" && e.Source != q.Source {
		return false
	}
	if q.ThreadID != "" && e.ThreadID != q.ThreadID {
		return false
	}
	return e.Importance >= q.MinImportance
}

// Store is an append-only in-memory context store safe for concurrent
// use. Readers observe a snapshot taken at call time.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewStore creates an empty context store.
func NewStore() *Store {
	return &Store{}
}

// Add appends an entry and returns its generated ID. The ID and
// timestamp are assigned here; importance is clamped to [0, 1].
func (s *Store) Add(e Entry) string {
	e.ID = core.NewID()
	e.Timestamp = time.Now().UTC()
	if e.Importance < 0 {
		e.Importance = 0
	} else if e.Importance > 1 {
		e.Importance = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return e.ID
}

// Get returns the entry with the given ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns the entries matching q, ordered by importance
// descending with ties preserved in insertion order. The returned slice
// is a defensive copy.
func (s *Store) Entries(q Query) []Entry {
	s.mu.RLock()
	result := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if q.matches(e) {
			result = append(result, e)
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Importance > result[j].Importance
	})
	return result
}

// Len returns the total number of entries added.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// ThreadLen returns the number of entries belonging to a thread.
func (s *Store) ThreadLen(threadID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.ThreadID == threadID {
			n++
		}
	}
	return n
}

// Snapshot writes all entries as JSON in insertion order. Persistence is
// an explicit, separately-triggered operation, never part of the
// per-query path.
func (s *Store) Snapshot(w io.Writer) error {
	s.mu.RLock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.RUnlock()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// PromptFormat renders entries as a contextual-information block for
// inclusion in prompt text.
func PromptFormat(entries []Entry) string {
	var b strings.Builder
	b.WriteString("CONTEXTUAL INFORMATION:\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "[%d] %s (importance: %.2f)\n", i+1, strings.ToUpper(e.Type), e.Importance)
		if e.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", e.Source)
		}
		b.WriteString(e.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
