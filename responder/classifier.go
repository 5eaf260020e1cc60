package responder

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrelay/core"
)

const classifierInstructions = "You are an expert at categorizing user queries into a fixed set of topics."

// Classifier assigns a query to one label from the closed topic set.
type Classifier struct {
	Base
}

// NewClassifier creates the topic classifier.
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{Base: NewBase("Classifier", classifierInstructions, cfg)}
}

// Classify determines the primary topic of a query. The result is always
// a member of the closed topic set: out-of-set or unparseable model
// output, and model failure, map to TopicGeneral. The decision is
// announced to the router on the message log and recorded on the context
// store (importance 0.9).
func (c *Classifier) Classify(ctx context.Context, threadID, query string) core.Topic {
	raw, err := c.complete(ctx, classifyPrompt(query))
	topic := core.TopicGeneral
	if err != nil {
		c.logger.Warn("classification degraded to general", "error", err)
	} else {
		topic = core.ParseTopic(raw)
	}

	c.send(threadID, "Router", "topic_identification", fmt.Sprintf("I've identified the query topic as: %s", topic))
	c.addContext(threadID, "topic_identification", fmt.Sprintf("The query topic has been identified as: %s", topic), 0.9, "")

	return topic
}

func classifyPrompt(query string) string {
	return fmt.Sprintf(`Analyze the following query and determine the primary topic category it falls into. Choose exactly ONE category from this list:

- weather: Questions about weather conditions, forecasts, temperature, etc.
- sports: Questions about sports teams, games, athletes, scores, etc.
- news: Questions about current events, recent happenings, breaking news, etc.
- stocks: Questions about financial markets, stock prices, investing, etc.
- health: Questions about health, wellness, medical conditions, etc.
- general: Any question that doesn't clearly fit into the above categories

USER QUERY: %s

Respond with ONLY the category name, nothing else.`, query)
}
