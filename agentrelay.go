// Package agentrelay routes a natural-language query through a small set
// of capability-specific responders (weather, sports, news, stocks,
// health), evaluates whether their combined output satisfies the query,
// and synthesizes a single answer. Most applications interact with this
// package by:
//  1. Creating an AgentRelay via New() with a generative model
//     (optionally overriding the shared stores, logger and limits)
//  2. Calling ProcessQuery for each user query
//
// The façade delegates orchestration to engine.Engine while keeping
// setup ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply external data
// sources for the domain responders and a structured logger.
package agentrelay

import (
	"context"
	"time"

	"github.com/hupe1980/agentrelay/a2a"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/engine"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/mcp"
	"github.com/hupe1980/agentrelay/model"
	"github.com/hupe1980/agentrelay/responder"
)

// Options configures the AgentRelay instance.
type Options struct {
	// MaxPasses bounds the number of evaluation passes per query.
	MaxPasses int

	// CallTimeout bounds every generative and data-source call.
	CallTimeout time.Duration

	// Sources configures external data providers for the domain responders.
	Sources responder.Sources

	// Log is the shared inter-responder message log (defaults to a new
	// in-memory log). Supply one instance to share it across relays.
	Log *a2a.Log

	// Store is the shared context store (defaults to a new in-memory store).
	Store *mcp.Store

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentRelay is the high-level façade aggregating the underlying engine
// and the two protocol stores.
type AgentRelay struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new AgentRelay instance around the given model with
// optional overrides. Any unset store is initialized with an in-memory
// implementation.
func New(m model.Model, optFns ...func(o *Options)) *AgentRelay {
	opts := Options{
		MaxPasses:   3,
		CallTimeout: 30 * time.Second,
		Log:         a2a.NewLog(),
		Store:       mcp.NewStore(),
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := engine.New(m, func(o *engine.Options) {
		o.MaxPasses = opts.MaxPasses
		o.CallTimeout = opts.CallTimeout
		o.Sources = opts.Sources
		o.Log = opts.Log
		o.Store = opts.Store
		o.Logger = opts.Logger
	})

	return &AgentRelay{opts: opts, engine: e}
}

// ProcessQuery drives one query end-to-end and returns the structured
// result. It never returns nil: failures surface as a result with the
// Error field set and a best-effort response.
func (r *AgentRelay) ProcessQuery(ctx context.Context, query string) *core.Result {
	return r.engine.ProcessQuery(ctx, query)
}

// MessageLog returns the shared inter-responder message log.
func (r *AgentRelay) MessageLog() *a2a.Log { return r.engine.MessageLog() }

// ContextStore returns the shared context store.
func (r *AgentRelay) ContextStore() *mcp.Store { return r.engine.ContextStore() }
