package core

import "context"

// Responder is a capability-specific unit that turns a query (plus
// optional external side data) into a natural-language answer.
//
// Implementations must degrade gracefully: data-source or model failures
// yield a reduced-confidence answer string, never an empty answer. The
// returned error is informational for the engine's audit trail and does
// not mean the answer is absent. Each invocation records its answer on
// the shared context store before returning.
type Responder interface {
	Name() ResponderName
	Answer(ctx context.Context, threadID, query string) (string, error)
}
