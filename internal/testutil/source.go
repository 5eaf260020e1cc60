package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/agentrelay/fetch"
)

// StaticSource is a fetch.Source returning fixed data or a fixed error,
// recording every entity it was asked for.
type StaticSource struct {
	Data fetch.Data
	Err  error

	mu       sync.Mutex
	entities []string
}

// Fetch implements fetch.Source.
func (s *StaticSource) Fetch(_ context.Context, entity string) (fetch.Data, error) {
	s.mu.Lock()
	s.entities = append(s.entities, entity)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Data, nil
}

// Entities returns a copy of every entity fetched so far.
func (s *StaticSource) Entities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	entities := make([]string, len(s.entities))
	copy(entities, s.entities)
	return entities
}
