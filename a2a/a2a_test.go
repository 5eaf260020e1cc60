package a2a

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendAndFilter(t *testing.T) {
	log := NewLog()
	log.Append(Message{Sender: "Classifier", Receiver: "Router", Type: "topic_identification", Content: "weather", ThreadID: "t1"})
	log.Append(Message{Sender: "Router", Receiver: "WeatherResponder", Type: "query_routing", Content: "go", ThreadID: "t1"})
	log.Append(Message{Sender: "Router", Receiver: "NewsResponder", Type: "query_routing", Content: "go", ThreadID: "t2"})

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, 2, log.ThreadLen("t1"))

	byThread := log.Messages(Query{ThreadID: "t1"})
	require.Len(t, byThread, 2)
	// Insertion order is preserved.
	assert.Equal(t, "Classifier", byThread[0].Sender)
	assert.Equal(t, "Router", byThread[1].Sender)

	bySender := log.Messages(Query{Sender: "Router"})
	assert.Len(t, bySender, 2)

	byReceiver := log.Messages(Query{Receiver: "WeatherResponder", ThreadID: "t1"})
	require.Len(t, byReceiver, 1)
	assert.Equal(t, "query_routing", byReceiver[0].Type)
}

func TestLog_DuplicateContentAllowed(t *testing.T) {
	log := NewLog()
	msg := Message{Sender: "a", Receiver: "b", Type: "text", Content: "same", ThreadID: "t"}
	log.Append(msg)
	log.Append(msg)
	assert.Equal(t, 2, log.Len())
}

func TestLog_ConcurrentAppend(t *testing.T) {
	log := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(Message{Sender: "a", Receiver: "b", Content: "x", ThreadID: "t"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, log.Len())
}

func TestLog_Snapshot(t *testing.T) {
	log := NewLog()
	log.Append(Message{Sender: "a", Receiver: "b", Type: "text", Content: "payload", ThreadID: "t"})

	var buf bytes.Buffer
	require.NoError(t, log.Snapshot(&buf))

	var msgs []Message
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "payload", msgs[0].Content)
}

func TestMessage_PromptFormat(t *testing.T) {
	msg := Message{Sender: "Router", Receiver: "WeatherResponder", Type: "query_routing", Content: "Please process this query", ThreadID: "t1"}
	text := msg.PromptFormat()
	assert.Contains(t, text, "FROM: Router")
	assert.Contains(t, text, "TO: WeatherResponder")
	assert.Contains(t, text, "THREAD: t1")
	assert.Contains(t, text, "Please process this query")
}
