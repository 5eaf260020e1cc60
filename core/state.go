package core

// HistoryEntry is one step of a run's append-only audit trail.
type HistoryEntry struct {
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Result string `json:"result"`
}

// RunState carries the mutable state of a single query execution. It is
// owned exclusively by the engine for the lifetime of the run: stages
// mutate it one at a time between barriers, and concurrent dispatch
// workers never touch it directly (their outputs are merged back by the
// engine after the barrier). It is therefore deliberately unsynchronized.
type RunState struct {
	// Query is the immutable user input.
	Query string
	// Topic is set once by the classify stage.
	Topic Topic
	// Responses maps responder name to answer text. Keys are unique and
	// grow monotonically across iterations; a key is never overwritten
	// within the same run.
	Responses map[ResponderName]string
	// History is the append-only audit trail.
	History []HistoryEntry
	// Selected is the active responder set for the current iteration.
	Selected []ResponderName
	// Attempted is the union of all responder names ever selected in the
	// run. It only grows; a name in Attempted is never selected again.
	Attempted map[ResponderName]struct{}
	// NeedsMore is the evaluator's latest verdict.
	NeedsMore bool
	// FinalAnswer holds the synthesized response once the run completes.
	FinalAnswer string
	// AttemptCount is incremented once per evaluation pass.
	AttemptCount int
	// ThreadID correlates all log and context entries of this run.
	ThreadID string
	// Errors collects non-fatal stage errors for the audit trail.
	Errors []string

	consulted []ResponderName // response keys in first-consulted order
}

// NewRunState creates the state for one query execution.
func NewRunState(query, threadID string) *RunState {
	return &RunState{
		Query:     query,
		Responses: make(map[ResponderName]string),
		Attempted: make(map[ResponderName]struct{}),
		ThreadID:  threadID,
	}
}

// Record appends an entry to the audit trail.
func (s *RunState) Record(actor, action, result string) {
	s.History = append(s.History, HistoryEntry{Actor: actor, Action: action, Result: result})
}

// MarkAttempted adds names to the attempted set. The set only grows.
func (s *RunState) MarkAttempted(names ...ResponderName) {
	for _, name := range names {
		s.Attempted[name] = struct{}{}
	}
}

// IsAttempted reports whether a responder has been selected in this run.
func (s *RunState) IsAttempted(name ResponderName) bool {
	_, ok := s.Attempted[name]
	return ok
}

// AddResponse stores a responder answer, preserving first-consulted order.
// It reports whether the answer was stored; an existing key is never
// overwritten.
func (s *RunState) AddResponse(name ResponderName, answer string) bool {
	if _, exists := s.Responses[name]; exists {
		return false
	}
	s.Responses[name] = answer
	s.consulted = append(s.consulted, name)
	return true
}

// Consulted returns the responder names that produced answers, in the
// order their answers were first recorded.
func (s *RunState) Consulted() []string {
	names := make([]string, len(s.consulted))
	for i, name := range s.consulted {
		names[i] = string(name)
	}
	return names
}
