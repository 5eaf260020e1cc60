package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentrelay/core"
)

const healthInstructions = `You are a health and wellness advisor.

Important disclaimers:
- You are not a licensed medical professional
- Your advice does not replace professional medical consultation
- For medical emergencies, users should contact emergency services
- Always recommend consulting with healthcare providers for specific medical concerns`

// Health answers health and wellness queries from general knowledge.
// It consults no external data source.
type Health struct {
	Base
}

// NewHealth creates the health responder.
func NewHealth(cfg Config) *Health {
	return &Health{Base: NewBase(string(core.HealthResponder), healthInstructions, cfg)}
}

// Name implements core.Responder.
func (h *Health) Name() core.ResponderName { return core.HealthResponder }

// Answer implements core.Responder.
func (h *Health) Answer(ctx context.Context, threadID, query string) (string, error) {
	prompt := fmt.Sprintf("Answer the following query:\n\nQUERY: %s\n\nProvide helpful, accurate information about health topics, including the appropriate disclaimers.", query)

	answer, err := h.complete(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		h.logger.Warn("health answer degraded", "error", err)
		answer = h.degradedAnswer("health and wellness topics")
	}

	h.addContext(threadID, "agent_response", answer, 0.9, "")
	return answer, err
}
