package responder

import (
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/fetch"
)

// Sources configures the optional external data providers per domain.
// A nil source leaves the responder on general knowledge.
type Sources struct {
	Weather fetch.Source
	Sports  fetch.Source
	News    fetch.Source
	Stocks  fetch.Source
}

// Registry is the closed lookup table from responder name to
// implementation. Registration happens once at construction time; there
// is no ambient string dispatch.
type Registry struct {
	responders map[core.ResponderName]core.Responder
	order      []core.ResponderName
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{responders: make(map[core.ResponderName]core.Responder)}
}

// NewDefaultRegistry builds a registry holding the five domain
// responders wired to the shared collaborators and the given sources.
func NewDefaultRegistry(cfg Config, sources Sources) *Registry {
	cfg = cfg.withDefaults()
	r := NewRegistry()
	r.Register(NewWeather(cfg, sources.Weather))
	r.Register(NewSports(cfg, sources.Sports))
	r.Register(NewNews(cfg, sources.News))
	r.Register(NewStocks(cfg, sources.Stocks))
	r.Register(NewHealth(cfg))
	return r
}

// Register adds a responder, replacing any previous registration for the
// same name while preserving its position.
func (r *Registry) Register(res core.Responder) {
	name := res.Name()
	if _, exists := r.responders[name]; !exists {
		r.order = append(r.order, name)
	}
	r.responders[name] = res
}

// Lookup resolves a responder by name.
func (r *Registry) Lookup(name core.ResponderName) (core.Responder, bool) {
	res, ok := r.responders[name]
	return res, ok
}

// Names returns the registered responder universe in registration order.
func (r *Registry) Names() []core.ResponderName {
	names := make([]core.ResponderName, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered responders.
func (r *Registry) Len() int { return len(r.order) }
