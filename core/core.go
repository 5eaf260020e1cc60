// Package core defines the shared vocabulary of AgentRelay: the closed
// topic and responder-name sets, the per-run mutable state, and the
// result object returned at the orchestration boundary. Everything here
// is plain data; behavior lives in the responder and engine packages.
package core

import (
	"strings"

	"github.com/google/uuid"
)

// Topic classifies a user query into one of the closed capability domains.
// The classifier never produces a value outside this set; unparseable or
// out-of-set output maps to TopicGeneral.
type Topic string

const (
	// TopicWeather covers conditions, forecasts and temperature questions.
	TopicWeather Topic = "weather"
	// TopicSports covers teams, games, athletes and scores.
	TopicSports Topic = "sports"
	// TopicNews covers current events and recent happenings.
	TopicNews Topic = "news"
	// TopicStocks covers financial markets, prices and investing.
	TopicStocks Topic = "stocks"
	// TopicHealth covers health, wellness and medical questions.
	TopicHealth Topic = "health"
	// TopicGeneral is the catch-all for everything else.
	TopicGeneral Topic = "general"
)

// Topics returns the closed topic set in canonical order.
func Topics() []Topic {
	return []Topic{TopicWeather, TopicSports, TopicNews, TopicStocks, TopicHealth, TopicGeneral}
}

// ParseTopic normalizes raw classifier output into a member of the closed
// topic set. Surrounding whitespace and case are ignored; anything that is
// not an exact member maps to TopicGeneral.
func ParseTopic(s string) Topic {
	switch Topic(strings.ToLower(strings.TrimSpace(s))) {
	case TopicWeather:
		return TopicWeather
	case TopicSports:
		return TopicSports
	case TopicNews:
		return TopicNews
	case TopicStocks:
		return TopicStocks
	case TopicHealth:
		return TopicHealth
	default:
		return TopicGeneral
	}
}

// ResponderName identifies one of the five domain responders. The set is
// closed: routing, dispatch and the exhaustion bound all rely on the
// universe being finite.
type ResponderName string

const (
	// WeatherResponder handles weather-related queries.
	WeatherResponder ResponderName = "WeatherResponder"
	// SportsResponder processes sports-related information.
	SportsResponder ResponderName = "SportsResponder"
	// NewsResponder provides current events information.
	NewsResponder ResponderName = "NewsResponder"
	// StocksResponder delivers financial market data.
	StocksResponder ResponderName = "StocksResponder"
	// HealthResponder answers health and wellness questions.
	HealthResponder ResponderName = "HealthResponder"
)

// AllResponders returns the closed responder universe in canonical order.
func AllResponders() []ResponderName {
	return []ResponderName{WeatherResponder, SportsResponder, NewsResponder, StocksResponder, HealthResponder}
}

// ParseResponderName reports whether s names a member of the responder
// universe, returning the canonical name on success.
func ParseResponderName(s string) (ResponderName, bool) {
	name := ResponderName(strings.TrimSpace(s))
	for _, valid := range AllResponders() {
		if name == valid {
			return valid, true
		}
	}
	return "", false
}

// NewID generates a unique identifier for threads and store entries.
func NewID() string { return uuid.NewString() }
