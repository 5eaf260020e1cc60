package engine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/agentrelay/a2a"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/internal/testutil"
	"github.com/hupe1980/agentrelay/mcp"
	"github.com/hupe1980/agentrelay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stageScript dispatches on the prompt each workflow stage builds, so a
// single model can drive a whole run deterministically.
type stageScript struct {
	classify   string
	route      func(call int) string
	evaluate   func(call int) string
	synthesize string
	answer     string
}

func (s stageScript) model() *testutil.ScriptedModel {
	var mu sync.Mutex
	var routeCalls, evalCalls int
	return testutil.NewScriptedModel(func(req model.Request) (string, error) {
		prompt := testutil.PromptText(req)
		switch {
		case strings.Contains(prompt, "determine the primary topic"):
			return s.classify, nil
		case strings.Contains(prompt, "Available responders:"):
			mu.Lock()
			routeCalls++
			call := routeCalls
			mu.Unlock()
			return s.route(call), nil
		case strings.Contains(prompt, "Evaluate if these answers"):
			mu.Lock()
			evalCalls++
			call := evalCalls
			mu.Unlock()
			return s.evaluate(call), nil
		case strings.Contains(prompt, "Synthesize a comprehensive"):
			return s.synthesize, nil
		case strings.Contains(prompt, "Extract a potential stock ticker"):
			return "NONE", nil
		default:
			return s.answer, nil
		}
	})
}

func sufficientJudgment(int) string {
	return `{"needs_more_info": false, "missing_info": "complete"}`
}

func insufficientJudgment(int) string {
	return `{"needs_more_info": true, "missing_info": "more detail needed"}`
}

func historyActions(result *core.Result, action string) []core.HistoryEntry {
	var entries []core.HistoryEntry
	for _, entry := range result.ConversationHistory {
		if entry.Action == action {
			entries = append(entries, entry)
		}
	}
	return entries
}

func TestProcessQuery_SingleResponderRun(t *testing.T) {
	script := stageScript{
		classify:   "weather",
		route:      func(int) string { return "WeatherResponder" },
		evaluate:   sufficientJudgment,
		synthesize: "It is 15C and cloudy in Seattle right now.",
		answer:     "15C and cloudy.",
	}
	e := New(script.model())

	result := e.ProcessQuery(context.Background(), "What's the weather like in Seattle today?")

	require.NotNil(t, result)
	assert.Empty(t, result.Error)
	assert.Equal(t, "weather", result.Topic)
	assert.Equal(t, []string{"WeatherResponder"}, result.AgentsConsulted)
	assert.Equal(t, "It is 15C and cloudy in Seattle right now.", result.Response)
	assert.NotEmpty(t, result.ConversationHistory)

	// One identification message plus one routing message.
	assert.Equal(t, 2, result.Metadata.MessageCount)
	// Topic, routing decision, answer, evaluation, final response.
	assert.Equal(t, 5, result.Metadata.ContextCount)
}

func TestProcessQuery_MaxPassesForcesCompletion(t *testing.T) {
	names := []string{"WeatherResponder", "SportsResponder", "NewsResponder"}
	script := stageScript{
		classify:   "general",
		route:      func(call int) string { return names[call-1] },
		evaluate:   insufficientJudgment,
		synthesize: "combined answer",
		answer:     "partial answer",
	}
	e := New(script.model())

	result := e.ProcessQuery(context.Background(), "tell me everything")

	assert.Empty(t, result.Error)
	assert.Len(t, result.AgentsConsulted, 3)
	assert.NotEmpty(t, result.Response)

	// Two real evaluation passes; the third hits the bound unevaluated.
	assert.Len(t, historyActions(result, "response_evaluation"), 2)
	forced := historyActions(result, "forced_completion")
	require.Len(t, forced, 1)
	assert.Equal(t, "maximum evaluation passes reached", forced[0].Result)
}

func TestProcessQuery_ExhaustionForcesCompletion(t *testing.T) {
	names := []string{"WeatherResponder", "SportsResponder", "NewsResponder", "StocksResponder", "HealthResponder"}
	script := stageScript{
		classify:   "general",
		route:      func(call int) string { return names[call-1] },
		evaluate:   insufficientJudgment,
		synthesize: "combined answer",
		answer:     "partial answer",
	}
	e := New(script.model(), func(o *Options) {
		o.MaxPasses = 10
	})

	result := e.ProcessQuery(context.Background(), "tell me everything")

	assert.Empty(t, result.Error)
	assert.NotEmpty(t, result.Response)

	// Every responder consulted exactly once.
	assert.ElementsMatch(t, names, result.AgentsConsulted)
	assert.Len(t, result.AgentsConsulted, 5)

	forced := historyActions(result, "forced_completion")
	require.Len(t, forced, 1)
	assert.Equal(t, "all responders consulted", forced[0].Result)
	assert.Len(t, historyActions(result, "response_evaluation"), 5)
}

func TestProcessQuery_NoReselectionOnRepeatedRoute(t *testing.T) {
	// The router keeps naming the same responder; the attempted-set
	// filter must widen the selection instead of re-running it.
	script := stageScript{
		classify:   "weather",
		route:      func(int) string { return "WeatherResponder" },
		evaluate:   insufficientJudgment,
		synthesize: "combined answer",
		answer:     "partial answer",
	}
	e := New(script.model())

	result := e.ProcessQuery(context.Background(), "weather in Oslo?")

	assert.Empty(t, result.Error)
	seen := make(map[string]int)
	for _, name := range result.AgentsConsulted {
		seen[name]++
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "responder %s consulted more than once", name)
	}
	assert.Contains(t, result.AgentsConsulted, "WeatherResponder")
	assert.Greater(t, len(result.AgentsConsulted), 1)
}

func TestProcessQuery_TotalModelFailure(t *testing.T) {
	m := testutil.NewScriptedModel(func(model.Request) (string, error) {
		return "", assert.AnError
	})
	e := New(m)

	result := e.ProcessQuery(context.Background(), "anything at all")

	require.NotNil(t, result)
	assert.Empty(t, result.Error)
	assert.Equal(t, "general", result.Topic)
	assert.Equal(t, []string{"NewsResponder"}, result.AgentsConsulted)
	assert.NotEmpty(t, result.Response)
}

func TestProcessQuery_ResponderPanicIsContained(t *testing.T) {
	script := stageScript{
		classify:   "weather",
		route:      func(int) string { return "WeatherResponder" },
		evaluate:   sufficientJudgment,
		synthesize: "best effort answer",
		answer:     "unused",
	}
	e := New(script.model())
	e.Registry().Register(panickingResponder{name: core.WeatherResponder})

	result := e.ProcessQuery(context.Background(), "weather in Oslo?")

	require.NotNil(t, result)
	assert.Empty(t, result.Error)
	assert.Equal(t, []string{"WeatherResponder"}, result.AgentsConsulted)
	assert.NotEmpty(t, result.Response)

	// The engine writes the substitute context entry the responder never got to.
	entries := e.ContextStore().Entries(mcp.Query{
		ThreadID: result.Metadata.ThreadID,
		Type:     "agent_response",
	})
	require.Len(t, entries, 1)
	assert.Equal(t, string(core.WeatherResponder), entries[0].Source)
}

func TestProcessQuery_ThreadScopedBookkeeping(t *testing.T) {
	script := stageScript{
		classify:   "sports",
		route:      func(int) string { return "SportsResponder" },
		evaluate:   sufficientJudgment,
		synthesize: "final answer",
		answer:     "game recap",
	}
	e := New(script.model())

	result := e.ProcessQuery(context.Background(), "did the Mariners win?")

	threadID := result.Metadata.ThreadID
	require.NotEmpty(t, threadID)

	messages := e.MessageLog().Messages(a2a.Query{ThreadID: threadID})
	assert.Len(t, messages, result.Metadata.MessageCount)
	assert.Equal(t, result.Metadata.ContextCount, e.ContextStore().ThreadLen(threadID))

	require.NotEmpty(t, messages)
	assert.Equal(t, "Classifier", messages[0].Sender)
	assert.Equal(t, "Router", messages[0].Receiver)
	assert.Equal(t, "topic_identification", messages[0].Type)

	finals := e.ContextStore().Entries(mcp.Query{ThreadID: threadID, Type: "final_response"})
	require.Len(t, finals, 1)
	assert.Equal(t, result.Response, finals[0].Content)
	assert.Equal(t, 1.0, finals[0].Importance)
}

func TestProcessQuery_ConcurrentRunsShareStores(t *testing.T) {
	script := stageScript{
		classify:   "news",
		route:      func(int) string { return "NewsResponder" },
		evaluate:   sufficientJudgment,
		synthesize: "final answer",
		answer:     "headline summary",
	}
	e := New(script.model())

	const runs = 8
	results := make([]*core.Result, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.ProcessQuery(context.Background(), "what happened today?")
		}(i)
	}
	wg.Wait()

	threads := make(map[string]struct{})
	for _, result := range results {
		require.NotNil(t, result)
		assert.Empty(t, result.Error)
		threads[result.Metadata.ThreadID] = struct{}{}

		// Per-thread counts stay correct despite the shared log and store.
		assert.Equal(t, result.Metadata.MessageCount, e.MessageLog().ThreadLen(result.Metadata.ThreadID))
		assert.Equal(t, result.Metadata.ContextCount, e.ContextStore().ThreadLen(result.Metadata.ThreadID))
		assert.Equal(t, 2, result.Metadata.MessageCount)
		assert.Equal(t, 5, result.Metadata.ContextCount)
	}
	assert.Len(t, threads, runs)
	assert.Equal(t, runs*2, e.MessageLog().Len())
	assert.Equal(t, runs*5, e.ContextStore().Len())
}

// panickingResponder stands in for a responder with a latent defect.
type panickingResponder struct {
	name core.ResponderName
}

func (p panickingResponder) Name() core.ResponderName { return p.name }

func (p panickingResponder) Answer(context.Context, string, string) (string, error) {
	panic("latent defect")
}
