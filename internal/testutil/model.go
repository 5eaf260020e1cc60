package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/agentrelay/model"
)

// ScriptedModel routes every prompt through a response function, letting
// tests drive each workflow stage deterministically. It is safe for
// concurrent use and records every request it saw.
type ScriptedModel struct {
	mu       sync.Mutex
	respond  func(req model.Request) (string, error)
	requests []model.Request
}

// NewScriptedModel creates a model driven by the given response function.
func NewScriptedModel(respond func(req model.Request) (string, error)) *ScriptedModel {
	return &ScriptedModel{respond: respond}
}

// Complete implements model.Model.
func (m *ScriptedModel) Complete(ctx context.Context, req model.Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.respond(req)
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test"}
}

// Requests returns a copy of every request the model received.
func (m *ScriptedModel) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]model.Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// PromptText returns the final user message of a request, which is the
// prompt the responder built.
func PromptText(req model.Request) string {
	if len(req.Messages) == 0 {
		return ""
	}
	return req.Messages[len(req.Messages)-1].Content
}
