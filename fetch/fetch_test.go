package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData_PromptFormat(t *testing.T) {
	d := Data{"temperature": "15.0°C", "condition": "Cloudy", "location": "Seattle, USA"}
	assert.Equal(t, "- condition: Cloudy\n- location: Seattle, USA\n- temperature: 15.0°C\n", d.PromptFormat())
	assert.Empty(t, Data{}.PromptFormat())
}

func TestWeatherAPI_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/current.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "Seattle", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"location": {"name": "Seattle", "region": "Washington", "country": "USA"},
			"current": {"temp_c": 15.0, "condition": {"text": "Cloudy"}, "humidity": 80, "wind_kph": 12.5}
		}`))
	}))
	defer srv.Close()

	source := NewWeatherAPI("test-key", WithWeatherBaseURL(srv.URL))
	data, err := source.Fetch(context.Background(), "Seattle")
	require.NoError(t, err)
	assert.Equal(t, "Seattle, USA", data["location"])
	assert.Equal(t, "15.0°C", data["temperature"])
	assert.Equal(t, "Cloudy", data["condition"])
}

func TestWeatherAPI_MissingKey(t *testing.T) {
	source := NewWeatherAPI("")
	_, err := source.Fetch(context.Background(), "Seattle")
	assert.ErrorContains(t, err, "api key not configured")
}

func TestWeatherAPI_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	source := NewWeatherAPI("test-key", WithWeatherBaseURL(srv.URL))
	_, err := source.Fetch(context.Background(), "Seattle")
	assert.ErrorContains(t, err, "unexpected status 403")
}

func TestAlphaVantage_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"Global Quote": {
			"01. symbol": "AAPL",
			"05. price": "150.0000",
			"10. change percent": "1.25%"
		}}`))
	}))
	defer srv.Close()

	source := NewAlphaVantage("test-key", WithAlphaVantageBaseURL(srv.URL))
	data, err := source.Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	// Numeric key prefixes are stripped.
	assert.Equal(t, "AAPL", data["symbol"])
	assert.Equal(t, "150.0000", data["price"])
	assert.Equal(t, "1.25%", data["change percent"])
}

func TestAlphaVantage_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer srv.Close()

	source := NewAlphaVantage("test-key", WithAlphaVantageBaseURL(srv.URL))
	_, err := source.Fetch(context.Background(), "ZZZZ")
	assert.ErrorContains(t, err, "Invalid API call")
}

func TestAlphaVantage_EmptyQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	}))
	defer srv.Close()

	source := NewAlphaVantage("test-key", WithAlphaVantageBaseURL(srv.URL))
	_, err := source.Fetch(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "no data for AAPL")
}

func TestNewsAPI_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "articles": [
			{"title": "First headline", "description": "Desc one", "source": {"name": "Reuters"}},
			{"title": "Second headline", "description": "Desc two", "source": {"name": "AP"}},
			{"title": "Third headline", "description": "Desc three", "source": {"name": "BBC"}},
			{"title": "Fourth headline", "description": "Desc four", "source": {"name": "AFP"}}
		]}`))
	}))
	defer srv.Close()

	source := NewNewsAPI("test-key", WithNewsBaseURL(srv.URL))
	data, err := source.Fetch(context.Background(), "markets")
	require.NoError(t, err)

	// Capped at three articles.
	assert.Len(t, data, 3)
	assert.Contains(t, data["article_1"], "First headline")
	assert.Contains(t, data["article_1"], "Reuters")
}
