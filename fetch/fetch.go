// Package fetch defines the external data-source boundary consumed by
// the domain responders, plus HTTP implementations for the providers the
// responders know about (weather conditions, stock quotes, news
// headlines). A fetch error always means "proceed without this data" to
// the caller; sources never gate a run.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Data is a flat rendering of a provider payload suitable for prompt text.
type Data map[string]string

// PromptFormat renders the data as sorted "key: value" lines.
func (d Data) PromptFormat() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, d[k])
	}
	return b.String()
}

// Source fetches structured side data for an entity extracted from a
// query (a location, a ticker symbol, a keyword). Implementations must
// respect ctx and bound their own latency.
type Source interface {
	Fetch(ctx context.Context, entity string) (Data, error)
}

// defaultHTTPClient bounds provider latency so a slow upstream cannot
// stall a dispatch barrier.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
