package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// maxArticles caps how many headlines reach the prompt.
const maxArticles = 3

// NewsAPI fetches recent articles for a keyword from newsapi.org.
type NewsAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewsAPIOption customizes a NewsAPI source.
type NewsAPIOption func(*NewsAPI)

// WithNewsHTTPClient overrides the HTTP client (useful for tests).
func WithNewsHTTPClient(c *http.Client) NewsAPIOption {
	return func(n *NewsAPI) { n.client = c }
}

// WithNewsBaseURL points the source at an alternate endpoint.
func WithNewsBaseURL(u string) NewsAPIOption {
	return func(n *NewsAPI) { n.baseURL = u }
}

// NewNewsAPI creates a news source.
func NewNewsAPI(apiKey string, optFns ...NewsAPIOption) *NewsAPI {
	n := &NewsAPI{
		apiKey:  apiKey,
		baseURL: "https://newsapi.org/v2",
		client:  defaultHTTPClient(),
	}
	for _, fn := range optFns {
		fn(n)
	}
	return n
}

type newsPayload struct {
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
	} `json:"articles"`
}

// Fetch implements Source for a keyword entity.
func (n *NewsAPI) Fetch(ctx context.Context, entity string) (Data, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("newsapi: api key not configured")
	}
	q := url.Values{}
	q.Set("apiKey", n.apiKey)
	q.Set("q", entity)
	q.Set("sortBy", "publishedAt")
	q.Set("language", "en")
	q.Set("pageSize", "5")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: unexpected status %d", resp.StatusCode)
	}
	var payload newsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("newsapi: decode: %w", err)
	}
	if len(payload.Articles) == 0 {
		return nil, fmt.Errorf("newsapi: no articles for %q", entity)
	}
	data := make(Data)
	for i, a := range payload.Articles {
		if i >= maxArticles {
			break
		}
		data[fmt.Sprintf("article_%d", i+1)] = fmt.Sprintf("%s (%s, %s): %s", a.Title, a.Source.Name, a.PublishedAt, a.Description)
	}
	return data, nil
}
