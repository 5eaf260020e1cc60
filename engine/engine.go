package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentrelay/a2a"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/mcp"
	"github.com/hupe1980/agentrelay/model"
	"github.com/hupe1980/agentrelay/responder"
)

// apologyAnswer is the last-resort response when no partial result
// exists and even the fallback responder failed.
const apologyAnswer = "I'm sorry, I encountered an error while processing your query. Please try a more specific question or check back later."

// stage enumerates the workflow states. Classify is the single entry
// point and stageDone the single terminal state.
type stage int

const (
	stageClassify stage = iota
	stageRoute
	stageDispatch
	stageEvaluate
	stageSynthesize
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageClassify:
		return "classify"
	case stageRoute:
		return "route"
	case stageDispatch:
		return "dispatch"
	case stageEvaluate:
		return "evaluate"
	case stageSynthesize:
		return "synthesize"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Options configures an Engine instance using the functional options
// pattern. Unset stores default to fresh in-memory instances; supply
// shared instances to let concurrent engines or runs share one log and
// context store.
type Options struct {
	// MaxPasses bounds the number of evaluation passes per run. It is
	// the cycle-termination guarantee on top of the structural bound
	// given by the finite responder universe.
	MaxPasses int

	// CallTimeout bounds every external call a stage makes. Timeouts
	// degrade the stage, they never abort the run.
	CallTimeout time.Duration

	// Fallback names the responder consulted when a run fails before
	// producing any response.
	Fallback core.ResponderName

	// Sources configures external data providers for the domain responders.
	Sources responder.Sources

	// Log is the shared inter-responder message log.
	Log *a2a.Log

	// Store is the shared context store.
	Store *mcp.Store

	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Engine owns the workflow state machine, the shared message log and
// context store, and the retry bound. One Engine drives any number of
// runs; each run's state is engine-local and discarded after the result
// is returned.
type Engine struct {
	classifier  *responder.Classifier
	router      *responder.Router
	evaluator   *responder.Evaluator
	synthesizer *responder.Synthesizer
	registry    *responder.Registry
	log         *a2a.Log
	store       *mcp.Store
	logger      logging.Logger
	maxPasses   int
	callTimeout time.Duration
	fallback    core.ResponderName
}

// New creates an engine around the given generative model.
func New(m model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		MaxPasses:   3,
		CallTimeout: 30 * time.Second,
		Fallback:    core.NewsResponder,
		Log:         a2a.NewLog(),
		Store:       mcp.NewStore(),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := responder.Config{Model: m, Log: opts.Log, Store: opts.Store, Logger: opts.Logger}

	return &Engine{
		classifier:  responder.NewClassifier(cfg),
		router:      responder.NewRouter(cfg),
		evaluator:   responder.NewEvaluator(cfg),
		synthesizer: responder.NewSynthesizer(cfg),
		registry:    responder.NewDefaultRegistry(cfg, opts.Sources),
		log:         opts.Log,
		store:       opts.Store,
		logger:      logging.WithComponent(opts.Logger, "engine"),
		maxPasses:   opts.MaxPasses,
		callTimeout: opts.CallTimeout,
		fallback:    opts.Fallback,
	}
}

// MessageLog returns the shared inter-responder message log.
func (e *Engine) MessageLog() *a2a.Log { return e.log }

// ContextStore returns the shared context store.
func (e *Engine) ContextStore() *mcp.Store { return e.store }

// Registry returns the closed responder lookup table.
func (e *Engine) Registry() *responder.Registry { return e.registry }

// ProcessQuery drives one query end-to-end through the workflow state
// machine and returns a structured result. It never returns nil and
// never panics: run-level failures are converted to a best-effort
// result with the Error field set.
func (e *Engine) ProcessQuery(ctx context.Context, query string) (result *core.Result) {
	state := core.NewRunState(query, core.NewID())
	logger := logging.WithThread(e.logger, state.ThreadID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("run recovered from panic", "panic", r)
			result = e.fallbackResult(ctx, state, fmt.Errorf("panic: %v", r))
		}
	}()

	logger.Info("processing query", "query", query)

	for st := stageClassify; st != stageDone; {
		logger.Debug("entering stage", "stage", st.String())
		switch st {
		case stageClassify:
			e.classify(ctx, state)
			st = stageRoute
		case stageRoute:
			e.route(ctx, state)
			st = stageDispatch
		case stageDispatch:
			e.dispatch(ctx, state)
			st = stageEvaluate
		case stageEvaluate:
			if e.evaluate(ctx, state) {
				st = stageRoute
			} else {
				st = stageSynthesize
			}
		case stageSynthesize:
			e.synthesize(ctx, state)
			st = stageDone
		}
	}

	logger.Info("run complete", "topic", state.Topic, "responders", len(state.Responses), "passes", state.AttemptCount)
	return e.buildResult(state)
}

// stageContext derives the bounded context every external call runs under.
func (e *Engine) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout > 0 {
		return context.WithTimeout(ctx, e.callTimeout)
	}
	return context.WithCancel(ctx)
}

func (e *Engine) classify(ctx context.Context, state *core.RunState) {
	cctx, cancel := e.stageContext(ctx)
	defer cancel()

	state.Topic = e.classifier.Classify(cctx, state.ThreadID, state.Query)
	state.Record("Classifier", "topic_identification", string(state.Topic))
}

// route selects the active responder set for this iteration. The
// router's choice is filtered against the attempted set so no responder
// runs twice in a run; if the filter empties the selection, the
// remaining universe takes its place (non-empty whenever the loop guard
// admitted this stage).
func (e *Engine) route(ctx context.Context, state *core.RunState) {
	rctx, cancel := e.stageContext(ctx)
	defer cancel()

	names := e.router.Route(rctx, state.ThreadID, state.Query, state.Topic)

	selected := make([]core.ResponderName, 0, len(names))
	for _, name := range names {
		if !state.IsAttempted(name) {
			selected = append(selected, name)
		}
	}
	if len(selected) == 0 {
		selected = e.remaining(state)
	}

	state.Selected = selected
	state.MarkAttempted(selected...)
	state.Record("Router", "routing_decision", joinNames(selected))
}

// dispatch invokes every selected responder concurrently and merges the
// outputs back after the barrier. Each goroutine writes only its private
// slot; the run state is untouched until all are done.
func (e *Engine) dispatch(ctx context.Context, state *core.RunState) {
	type outcome struct {
		name     core.ResponderName
		answer   string
		err      error
		external bool // answer substituted by the engine, responder wrote no context entry
	}

	outcomes := make([]outcome, len(state.Selected))
	var wg sync.WaitGroup
	for i, name := range state.Selected {
		res, ok := e.registry.Lookup(name)
		if !ok {
			outcomes[i] = outcome{name: name, err: fmt.Errorf("responder %s not registered", name), external: true}
			continue
		}

		wg.Add(1)
		go func(i int, name core.ResponderName, res core.Responder) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = outcome{name: name, err: fmt.Errorf("responder %s panicked: %v", name, r), external: true}
				}
			}()

			rctx, cancel := e.stageContext(ctx)
			defer cancel()

			answer, err := res.Answer(rctx, state.ThreadID, state.Query)
			outcomes[i] = outcome{name: name, answer: answer, err: err, external: strings.TrimSpace(answer) == ""}
		}(i, name, res)
	}
	wg.Wait()

	for _, out := range outcomes {
		if out.err != nil {
			state.Errors = append(state.Errors, fmt.Sprintf("%s: %v", out.name, out.err))
		}
		if strings.TrimSpace(out.answer) == "" {
			out.answer = fmt.Sprintf("%s could not produce an answer for this query.", out.name)
		}
		if out.external {
			// Keep the one-context-entry-per-invocation invariant even
			// when the responder never got far enough to write its own.
			e.store.Add(mcp.Entry{
				Type:       "agent_response",
				Content:    out.answer,
				Importance: 0.9,
				Source:     string(out.name),
				ThreadID:   state.ThreadID,
			})
		}
		state.AddResponse(out.name, out.answer)
		state.Record(string(out.name), "query_processing", out.answer)
	}
}

// evaluate runs one evaluation pass and reports whether the workflow
// should loop back to routing. The pass counter increments first; at the
// bound the run is forced to completion without consulting the
// evaluator. Exhaustion of the responder universe likewise forces
// completion regardless of the verdict.
func (e *Engine) evaluate(ctx context.Context, state *core.RunState) bool {
	state.AttemptCount++

	if state.AttemptCount >= e.maxPasses {
		state.NeedsMore = false
		state.Record("Evaluator", "forced_completion", "maximum evaluation passes reached")
		return false
	}

	ectx, cancel := e.stageContext(ctx)
	defer cancel()

	judgment := e.evaluator.Evaluate(ectx, state.ThreadID, state.Query, state.Responses)
	state.NeedsMore = judgment.NeedsMore
	state.Record("Evaluator", "response_evaluation", judgment.Missing)

	if !state.NeedsMore {
		return false
	}
	if len(e.remaining(state)) == 0 {
		state.NeedsMore = false
		state.Record("Evaluator", "forced_completion", "all responders consulted")
		return false
	}
	return true
}

func (e *Engine) synthesize(ctx context.Context, state *core.RunState) {
	sctx, cancel := e.stageContext(ctx)
	defer cancel()

	state.FinalAnswer = e.synthesizer.Synthesize(sctx, state.ThreadID, state.Query, state.Responses)
	state.Record("Synthesizer", "final_synthesis", state.FinalAnswer)
}

// remaining returns the responders never selected in this run, in
// registry order.
func (e *Engine) remaining(state *core.RunState) []core.ResponderName {
	var names []core.ResponderName
	for _, name := range e.registry.Names() {
		if !state.IsAttempted(name) {
			names = append(names, name)
		}
	}
	return names
}

func (e *Engine) buildResult(state *core.RunState) *core.Result {
	return &core.Result{
		Query:               state.Query,
		Topic:               string(state.Topic),
		AgentsConsulted:     state.Consulted(),
		Response:            state.FinalAnswer,
		ConversationHistory: state.History,
		Metadata: core.ResultMetadata{
			ThreadID:     state.ThreadID,
			MessageCount: e.log.ThreadLen(state.ThreadID),
			ContextCount: e.store.ThreadLen(state.ThreadID),
		},
	}
}

// fallbackResult converts an unrecoverable run failure into the best
// available partial result: existing responses joined, then a single
// designated default responder, then a fixed apology.
func (e *Engine) fallbackResult(ctx context.Context, state *core.RunState, runErr error) *core.Result {
	state.Record("Orchestrator", "error_recovery", runErr.Error())

	switch {
	case len(state.Responses) > 0:
		state.FinalAnswer = responder.JoinResponses(state.Responses)
	default:
		state.FinalAnswer = e.defaultResponderAnswer(ctx, state)
	}

	result := e.buildResult(state)
	result.Error = runErr.Error()
	return result
}

func (e *Engine) defaultResponderAnswer(ctx context.Context, state *core.RunState) string {
	res, ok := e.registry.Lookup(e.fallback)
	if !ok {
		return apologyAnswer
	}

	rctx, cancel := e.stageContext(ctx)
	defer cancel()

	answer, err := res.Answer(rctx, state.ThreadID, state.Query)
	if err != nil || strings.TrimSpace(answer) == "" {
		return apologyAnswer
	}
	state.AddResponse(e.fallback, answer)
	return answer
}

func joinNames(names []core.ResponderName) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = string(name)
	}
	return strings.Join(parts, ", ")
}
