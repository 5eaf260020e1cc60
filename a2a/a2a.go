// Package a2a implements the agent-to-agent message log: an append-only,
// insertion-ordered record of inter-responder notifications, queryable by
// thread, sender and receiver. The log is an audit surface shared by all
// participants of a run; it is not itself part of the decision logic.
package a2a

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Message is a single inter-responder notification. Messages are
// immutable once appended; duplicate content is allowed, identity is
// positional.
type Message struct {
	Sender   string            `json:"sender"`
	Receiver string            `json:"receiver"`
	Type     string            `json:"type"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	ThreadID string            `json:"thread_id"`
}

// PromptFormat renders the message for inclusion in prompt text.
func (m Message) PromptFormat() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM: %s\nTO: %s\nTYPE: %s\n", m.Sender, m.Receiver, m.Type)
	if m.ThreadID != "" {
		fmt.Fprintf(&b, "THREAD: %s\n", m.ThreadID)
	}
	for k, v := range m.Metadata {
		fmt.Fprintf(&b, "METADATA: %s=%s\n", k, v)
	}
	fmt.Fprintf(&b, "CONTENT:\n%s\n", m.Content)
	return b.String()
}

// Query filters message retrieval. Zero-value fields match everything.
type Query struct {
	ThreadID string
	Sender   string
	Receiver string
}

func (q Query) matches(m Message) bool {
	if q.ThreadID != "" && m.ThreadID != q.ThreadID {
		return false
	}
	if q.Sender != "" && m.Sender != q.Sender {
		return false
	}
	if q.Receiver != "" && m.Receiver != q.Receiver {
		return false
	}
	return true
}

// Log is an append-only in-memory message log safe for concurrent use.
// Readers observe a snapshot taken at call time: every append that
// completed before the call is visible, later appends are not.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog creates an empty message log.
func NewLog() *Log {
	return &Log{}
}

// Append records a message. Messages are never mutated or removed.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// Messages returns the messages matching q in insertion order. The
// returned slice is a defensive copy.
func (l *Log) Messages(q Query) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make([]Message, 0, len(l.messages))
	for _, m := range l.messages {
		if q.matches(m) {
			result = append(result, m)
		}
	}
	return result
}

// Len returns the total number of messages appended.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// ThreadLen returns the number of messages belonging to a thread.
func (l *Log) ThreadLen(threadID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, m := range l.messages {
		if m.ThreadID == threadID {
			n++
		}
	}
	return n
}

// Snapshot writes the full log as JSON. Persistence is an explicit,
// separately-triggered operation, never part of the per-query path.
func (l *Log) Snapshot(w io.Writer) error {
	msgs := l.Messages(Query{})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}
