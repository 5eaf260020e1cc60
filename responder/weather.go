package responder

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/fetch"
)

const weatherInstructions = "You are a weather expert providing accurate information about weather conditions and forecasts."

// locationPattern matches "in <Place>" with capitalized place names, e.g.
// "in Seattle" or "in New York". The query text after the place (e.g.
// "today") stays lowercase and is not captured.
var locationPattern = regexp.MustCompile(`\bin\s+([A-Z][a-zA-Z.'-]*(?:\s+[A-Z][a-zA-Z.'-]*)*)`)

// Weather answers weather-related queries, optionally enriched with live
// conditions for a location extracted from the query.
type Weather struct {
	Base
	source fetch.Source
}

// NewWeather creates the weather responder. source may be nil, in which
// case answers rely on general knowledge alone.
func NewWeather(cfg Config, source fetch.Source) *Weather {
	return &Weather{Base: NewBase(string(core.WeatherResponder), weatherInstructions, cfg), source: source}
}

// Name implements core.Responder.
func (w *Weather) Name() core.ResponderName { return core.WeatherResponder }

// Answer implements core.Responder. Extraction or data-source failure
// degrades to a general-knowledge answer; model failure yields a fixed
// reduced-confidence answer. The answer is recorded on the context store
// (importance 0.9) before returning.
func (w *Weather) Answer(ctx context.Context, threadID, query string) (string, error) {
	var data fetch.Data
	if w.source != nil {
		if location := extractLocation(query); location != "" {
			d, err := w.source.Fetch(ctx, location)
			if err != nil {
				w.logger.Warn("weather data unavailable, answering from general knowledge", "location", location, "error", err)
			} else {
				data = d
			}
		}
	}

	answer, err := w.complete(ctx, weatherPrompt(query, data))
	if err != nil || strings.TrimSpace(answer) == "" {
		w.logger.Warn("weather answer degraded", "error", err)
		answer = w.degradedAnswer("current weather conditions")
	}

	w.addContext(threadID, "agent_response", answer, 0.9, "")
	return answer, err
}

// extractLocation pulls a capitalized place name out of the query.
// Returns "" when no location is recognizable.
func extractLocation(query string) string {
	m := locationPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}

func weatherPrompt(query string, data fetch.Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer the following query:\n\nQUERY: %s\n\n", query)
	if len(data) > 0 {
		fmt.Fprintf(&b, "WEATHER DATA:\n%s\n", data.PromptFormat())
		b.WriteString("Provide an informative, accurate response about weather conditions based on the data above.")
	} else {
		b.WriteString("No live weather data is available. Provide general information but be clear about the limitations.")
	}
	return b.String()
}
