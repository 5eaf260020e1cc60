package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
)

const routerInstructions = "You are an expert router that assigns user queries to specialized responders."

// defaultRoutes is the static fallback table used when the model
// produces no usable responder names. General queries default to news.
var defaultRoutes = map[core.Topic]core.ResponderName{
	core.TopicWeather: core.WeatherResponder,
	core.TopicSports:  core.SportsResponder,
	core.TopicNews:    core.NewsResponder,
	core.TopicStocks:  core.StocksResponder,
	core.TopicHealth:  core.HealthResponder,
	core.TopicGeneral: core.NewsResponder,
}

// Router selects which domain responders should handle a query.
type Router struct {
	Base
}

// NewRouter creates the query router.
func NewRouter(cfg Config) *Router {
	return &Router{Base: NewBase("Router", routerInstructions, cfg)}
}

// Route determines the responder set for a query. The model's
// comma-separated answer is filtered against the closed responder
// universe; if nothing valid remains (or the model call fails), the
// static topic table supplies a default, so the result is always
// non-empty. Each selected responder is notified on the message log and
// the decision is recorded on the context store (importance 0.8).
func (r *Router) Route(ctx context.Context, threadID, query string, topic core.Topic) []core.ResponderName {
	raw, err := r.complete(ctx, routePrompt(query, topic))
	if err != nil {
		r.logger.Warn("routing degraded to static table", "error", err)
		raw = ""
	}

	var names []core.ResponderName
	seen := make(map[core.ResponderName]struct{})
	for _, part := range strings.Split(raw, ",") {
		name, ok := core.ParseResponderName(part)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) == 0 {
		fallback, ok := defaultRoutes[topic]
		if !ok {
			fallback = core.NewsResponder
		}
		names = []core.ResponderName{fallback}
	}

	for _, name := range names {
		r.send(threadID, string(name), "query_routing", fmt.Sprintf("Please process this query: %s", query))
	}
	r.addContext(threadID, "routing_decision", fmt.Sprintf("The query has been routed to: %s", joinNames(names)), 0.8, "")

	return names
}

func routePrompt(query string, topic core.Topic) string {
	return fmt.Sprintf(`Based on the query and identified topic, select the appropriate responder(s).

USER QUERY: %s
IDENTIFIED TOPIC: %s

Available responders:
- WeatherResponder: Handles weather-related queries
- SportsResponder: Processes sports-related information
- NewsResponder: Provides current events information
- StocksResponder: Delivers financial market data
- HealthResponder: Answers health and wellness questions

You can select one primary responder or multiple responders if the query touches multiple domains.
Respond with only the responder names, separated by commas (e.g., "WeatherResponder" or "NewsResponder,StocksResponder").`, query, topic)
}

func joinNames(names []core.ResponderName) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = string(name)
	}
	return strings.Join(parts, ", ")
}
