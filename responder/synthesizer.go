package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
)

const synthesizerInstructions = "You are a synthesis expert that composes a single coherent answer from multiple specialist responses."

// insufficientInfoAnswer is returned when a run reaches synthesis with
// no responses at all.
const insufficientInfoAnswer = "I don't have enough information to answer that right now. Please try rephrasing your question or asking something more specific."

// Synthesizer composes the final answer from all accumulated responses.
type Synthesizer struct {
	Base
}

// NewSynthesizer creates the response synthesizer.
func NewSynthesizer(cfg Config) *Synthesizer {
	return &Synthesizer{Base: NewBase("Synthesizer", synthesizerInstructions, cfg)}
}

// Synthesize integrates every accumulated response (across all
// iterations) into one deduplicated answer. It always returns a
// non-empty string: an empty response set yields a fixed
// insufficient-information message, and model failure falls back to the
// raw responses joined in deterministic order. The final text is
// recorded on the context store (importance 1.0) for audit.
func (s *Synthesizer) Synthesize(ctx context.Context, threadID, query string, responses map[core.ResponderName]string) string {
	var final string
	switch {
	case len(responses) == 0:
		final = insufficientInfoAnswer
	default:
		raw, err := s.complete(ctx, synthesizePrompt(query, responses))
		if err != nil || strings.TrimSpace(raw) == "" {
			s.logger.Warn("synthesis degraded to joined responses", "error", err)
			final = JoinResponses(responses)
		} else {
			final = strings.TrimSpace(raw)
		}
	}

	s.addContext(threadID, "final_response", final, 1.0, "")
	return final
}

// JoinResponses renders the raw responses as a readable fallback answer,
// ordered by responder name.
func JoinResponses(responses map[core.ResponderName]string) string {
	if len(responses) == 0 {
		return insufficientInfoAnswer
	}
	return FormatResponses(responses)
}

func synthesizePrompt(query string, responses map[core.ResponderName]string) string {
	return fmt.Sprintf(`User Query: %s

Responder Answers:
%s

Synthesize a comprehensive, well-formatted final response to the user's query
based on the information provided above. Integrate every answer, remove
overlapping content, and keep the response direct, concise and focused on the query.`, query, FormatResponses(responses))
}
