package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// AlphaVantage fetches a global stock quote for a ticker symbol.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// AlphaVantageOption customizes an AlphaVantage source.
type AlphaVantageOption func(*AlphaVantage)

// WithAlphaVantageHTTPClient overrides the HTTP client (useful for tests).
func WithAlphaVantageHTTPClient(c *http.Client) AlphaVantageOption {
	return func(a *AlphaVantage) { a.client = c }
}

// WithAlphaVantageBaseURL points the source at an alternate endpoint.
func WithAlphaVantageBaseURL(u string) AlphaVantageOption {
	return func(a *AlphaVantage) { a.baseURL = u }
}

// NewAlphaVantage creates a stock quote source.
func NewAlphaVantage(apiKey string, optFns ...AlphaVantageOption) *AlphaVantage {
	a := &AlphaVantage{
		apiKey:  apiKey,
		baseURL: "https://www.alphavantage.co",
		client:  defaultHTTPClient(),
	}
	for _, fn := range optFns {
		fn(a)
	}
	return a
}

type quotePayload struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	ErrorMessage string            `json:"Error Message"`
}

// Fetch implements Source for a ticker symbol entity.
func (a *AlphaVantage) Fetch(ctx context.Context, entity string) (Data, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("alphavantage: api key not configured")
	}
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", entity)
	q.Set("apikey", a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: unexpected status %d", resp.StatusCode)
	}
	var payload quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage: decode: %w", err)
	}
	if payload.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", payload.ErrorMessage)
	}
	if len(payload.GlobalQuote) == 0 {
		return nil, fmt.Errorf("alphavantage: no data for %s", entity)
	}
	data := make(Data, len(payload.GlobalQuote))
	for k, v := range payload.GlobalQuote {
		// Keys arrive as "05. price"; strip the numeric prefix.
		if idx := strings.Index(k, ". "); idx >= 0 {
			k = k[idx+2:]
		}
		data[k] = v
	}
	return data, nil
}
