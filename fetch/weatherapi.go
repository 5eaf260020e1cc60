package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// WeatherAPI fetches current conditions for a location from
// weatherapi.com.
type WeatherAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// WeatherAPIOption customizes a WeatherAPI source.
type WeatherAPIOption func(*WeatherAPI)

// WithWeatherHTTPClient overrides the HTTP client (useful for tests).
func WithWeatherHTTPClient(c *http.Client) WeatherAPIOption {
	return func(w *WeatherAPI) { w.client = c }
}

// WithWeatherBaseURL points the source at an alternate endpoint.
func WithWeatherBaseURL(u string) WeatherAPIOption {
	return func(w *WeatherAPI) { w.baseURL = u }
}

// NewWeatherAPI creates a weather source. The API key is required by the
// provider; an empty key yields an error at fetch time, which callers
// degrade from like any other source failure.
func NewWeatherAPI(apiKey string, optFns ...WeatherAPIOption) *WeatherAPI {
	w := &WeatherAPI{
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		client:  defaultHTTPClient(),
	}
	for _, fn := range optFns {
		fn(w)
	}
	return w
}

type weatherPayload struct {
	Location struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Humidity int     `json:"humidity"`
		WindKph  float64 `json:"wind_kph"`
	} `json:"current"`
}

// Fetch implements Source for a location entity.
func (w *WeatherAPI) Fetch(ctx context.Context, entity string) (Data, error) {
	if w.apiKey == "" {
		return nil, fmt.Errorf("weatherapi: api key not configured")
	}
	q := url.Values{}
	q.Set("key", w.apiKey)
	q.Set("q", entity)
	q.Set("aqi", "no")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/current.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weatherapi: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weatherapi: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weatherapi: unexpected status %d", resp.StatusCode)
	}
	var payload weatherPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weatherapi: decode: %w", err)
	}
	location := payload.Location.Name
	if payload.Location.Country != "" {
		location += ", " + payload.Location.Country
	}
	return Data{
		"location":    location,
		"temperature": fmt.Sprintf("%.1f°C", payload.Current.TempC),
		"condition":   payload.Current.Condition.Text,
		"humidity":    fmt.Sprintf("%d%%", payload.Current.Humidity),
		"wind":        fmt.Sprintf("%.1f kph", payload.Current.WindKph),
	}, nil
}
