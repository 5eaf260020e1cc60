package responder

import (
	"context"
	"testing"

	"github.com/hupe1980/agentrelay/a2a"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ParsesCommaList(t *testing.T) {
	cfg := newTestConfig(staticModel("NewsResponder, StocksResponder"))
	r := NewRouter(cfg)

	names := r.Route(context.Background(), "t1", "tech news and AAPL", core.TopicNews)
	assert.Equal(t, []core.ResponderName{core.NewsResponder, core.StocksResponder}, names)

	// One routing message per selected responder.
	msgs := cfg.Log.Messages(a2a.Query{ThreadID: "t1", Sender: "Router"})
	require.Len(t, msgs, 2)
	assert.Equal(t, "NewsResponder", msgs[0].Receiver)
	assert.Equal(t, "StocksResponder", msgs[1].Receiver)

	entries := cfg.Store.Entries(mcp.Query{ThreadID: "t1", Type: "routing_decision"})
	require.Len(t, entries, 1)
	assert.Equal(t, 0.8, entries[0].Importance)
}

func TestRouter_FiltersInvalidNames(t *testing.T) {
	r := NewRouter(newTestConfig(staticModel("WeatherResponder, PirateResponder, weatherresponder")))
	names := r.Route(context.Background(), "t1", "q", core.TopicWeather)
	assert.Equal(t, []core.ResponderName{core.WeatherResponder}, names)
}

func TestRouter_DeduplicatesNames(t *testing.T) {
	r := NewRouter(newTestConfig(staticModel("NewsResponder,NewsResponder")))
	names := r.Route(context.Background(), "t1", "q", core.TopicNews)
	assert.Equal(t, []core.ResponderName{core.NewsResponder}, names)
}

func TestRouter_FallsBackToTopicTable(t *testing.T) {
	tests := []struct {
		topic core.Topic
		want  core.ResponderName
	}{
		{core.TopicWeather, core.WeatherResponder},
		{core.TopicSports, core.SportsResponder},
		{core.TopicNews, core.NewsResponder},
		{core.TopicStocks, core.StocksResponder},
		{core.TopicHealth, core.HealthResponder},
		{core.TopicGeneral, core.NewsResponder},
	}
	for _, tt := range tests {
		r := NewRouter(newTestConfig(staticModel("no idea")))
		names := r.Route(context.Background(), "t1", "q", tt.topic)
		assert.Equal(t, []core.ResponderName{tt.want}, names, "topic %s", tt.topic)
	}
}

func TestRouter_ModelFailureUsesTable(t *testing.T) {
	r := NewRouter(newTestConfig(failingModel("backend down")))
	names := r.Route(context.Background(), "t1", "q", core.TopicHealth)
	assert.Equal(t, []core.ResponderName{core.HealthResponder}, names)
}

func TestRouter_NeverEmpty(t *testing.T) {
	for _, raw := range []string{"", ",", "nothing valid", "Classifier"} {
		r := NewRouter(newTestConfig(staticModel(raw)))
		names := r.Route(context.Background(), "t1", "q", core.TopicGeneral)
		assert.NotEmpty(t, names, "raw output %q", raw)
	}
}
