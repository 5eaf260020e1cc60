// Package model defines the generative-completion boundary consumed by
// responders: an ordered conversation in, text out. Provider adapters
// live in subpackages (openai, anthropic); a canned MockModel is
// included for tests and examples.
//
// Failures and timeouts surface as ordinary errors. Callers treat them
// as "no answer, degrade gracefully"; a model error is never fatal to a
// run.
package model

import (
	"context"
	"fmt"
)

// Message is one turn of a conversation sent to the backend.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request captures the normalized model input produced by responders.
type Request struct {
	Instructions string    `json:"instructions"` // system-level instructions
	Messages     []Message `json:"messages"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface responders need to drive generation.
type Model interface {
	Complete(ctx context.Context, req Request) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are keyed by the final user message; unknown prompts get a
// deterministic echo.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1]
	if resp, ok := m.responses[last.Content]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", last.Content), nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
