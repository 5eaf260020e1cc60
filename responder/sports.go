package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/fetch"
)

const sportsInstructions = "You are a sports expert with knowledge of teams, games, athletes and results."

// Sports answers sports-related queries, optionally enriched with data
// keyed by the query itself.
type Sports struct {
	Base
	source fetch.Source
}

// NewSports creates the sports responder. source may be nil.
func NewSports(cfg Config, source fetch.Source) *Sports {
	return &Sports{Base: NewBase(string(core.SportsResponder), sportsInstructions, cfg), source: source}
}

// Name implements core.Responder.
func (s *Sports) Name() core.ResponderName { return core.SportsResponder }

// Answer implements core.Responder.
func (s *Sports) Answer(ctx context.Context, threadID, query string) (string, error) {
	var data fetch.Data
	if s.source != nil {
		d, err := s.source.Fetch(ctx, query)
		if err != nil {
			s.logger.Warn("sports data unavailable, answering from general knowledge", "error", err)
		} else {
			data = d
		}
	}

	answer, err := s.complete(ctx, sportsPrompt(query, data))
	if err != nil || strings.TrimSpace(answer) == "" {
		s.logger.Warn("sports answer degraded", "error", err)
		answer = s.degradedAnswer("sports results and schedules")
	}

	s.addContext(threadID, "agent_response", answer, 0.9, "")
	return answer, err
}

func sportsPrompt(query string, data fetch.Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer the following query:\n\nQUERY: %s\n\n", query)
	if len(data) > 0 {
		fmt.Fprintf(&b, "SPORTS DATA:\n%s\n", data.PromptFormat())
		b.WriteString("Provide an accurate, informative response based on the data above.")
	} else {
		b.WriteString("No live sports data is available. Provide general information but be clear about the limitations.")
	}
	return b.String()
}
