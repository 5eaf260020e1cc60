// Package engine implements the orchestration workflow state machine:
// Classify → Route → Dispatch → Evaluate → {Route | Synthesize} → Done.
//
// The Evaluate → Route transition is taken only while the evaluator
// requests more information, the evaluation-pass bound has not been
// reached, and unconsulted responders remain. Termination is structural
// rather than incidental: the attempted set only grows and the responder
// universe is finite, so the loop ends within one pass per responder
// even without the explicit counter; the counter bounds latency and cost
// tighter than that.
//
// Within a dispatch stage the selected responders run concurrently with
// private output slots merged back after a barrier; a responder's own
// calls remain strictly sequential. Any stage-level failure is caught at
// the engine boundary and converted to a best-effort partial result;
// ProcessQuery never propagates a panic or error to the caller.
package engine
