package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/fetch"
)

const newsInstructions = "You are a news expert covering current events and recent developments."

// News answers current-events queries, optionally enriched with recent
// headlines fetched for the query keywords.
type News struct {
	Base
	source fetch.Source
}

// NewNews creates the news responder. source may be nil.
func NewNews(cfg Config, source fetch.Source) *News {
	return &News{Base: NewBase(string(core.NewsResponder), newsInstructions, cfg), source: source}
}

// Name implements core.Responder.
func (n *News) Name() core.ResponderName { return core.NewsResponder }

// Answer implements core.Responder.
func (n *News) Answer(ctx context.Context, threadID, query string) (string, error) {
	var data fetch.Data
	if n.source != nil {
		d, err := n.source.Fetch(ctx, query)
		if err != nil {
			n.logger.Warn("news data unavailable, answering from general knowledge", "error", err)
		} else {
			data = d
		}
	}

	answer, err := n.complete(ctx, newsPrompt(query, data))
	if err != nil || strings.TrimSpace(answer) == "" {
		n.logger.Warn("news answer degraded", "error", err)
		answer = n.degradedAnswer("the latest news")
	}

	n.addContext(threadID, "agent_response", answer, 0.9, "")
	return answer, err
}

func newsPrompt(query string, data fetch.Data) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer the following query about current events:\n\nQUERY: %s\n\n", query)
	if len(data) > 0 {
		fmt.Fprintf(&b, "NEWS DATA:\n%s\n", data.PromptFormat())
		b.WriteString("Provide an accurate, up-to-date response about the news topic. If the data doesn't fully address the query, synthesize what you know to give the most helpful response possible.")
	} else {
		b.WriteString("No latest news data is available. Provide a helpful response based on general knowledge, making clear that you're not reporting the latest headlines. Focus on general trends and well-established facts.")
	}
	return b.String()
}
