package core

// ResultMetadata carries correlation and bookkeeping counters for a run.
// Counts are scoped to the run's thread so concurrent runs sharing one
// log and store report only their own entries.
type ResultMetadata struct {
	ThreadID     string `json:"thread_id"`
	MessageCount int    `json:"message_count"`
	ContextCount int    `json:"context_count"`
}

// Result is the structured outcome returned at the orchestration
// boundary. The caller always receives one: Error signals that a run-level
// failure was recovered, never a missing Response.
type Result struct {
	Query               string         `json:"query"`
	Topic               string         `json:"topic"`
	AgentsConsulted     []string       `json:"agents_consulted"`
	Response            string         `json:"response"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
	Error               string         `json:"error,omitempty"`
	Metadata            ResultMetadata `json:"metadata"`
}
