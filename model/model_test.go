package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hello", "hi there")

	resp, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp)
}

func TestMockModel_DefaultEcho(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	resp, err := m.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "unseen prompt"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unseen prompt", resp)
}

func TestMockModel_KeyedOnFinalMessage(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("second", "answer")

	resp, err := m.Complete(context.Background(), Request{
		Messages: []Message{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "reply"},
			{Role: "user", Content: "second"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp)
}

func TestMockModel_NoMessages(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	_, err := m.Complete(context.Background(), Request{})
	assert.Error(t, err)
}

func TestMockModel_CanceledContext(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{Messages: []Message{{Role: "user", Content: "x"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	assert.Equal(t, Info{Name: "test-model", Provider: "mock"}, m.Info())
}
