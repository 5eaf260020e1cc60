package responder

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentrelay/a2a"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/mcp"
	"github.com/hupe1980/agentrelay/model"
)

// Config bundles the collaborators every responder shares: the
// generative model, the message log, the context store and a logger.
type Config struct {
	Model  model.Model
	Log    *a2a.Log
	Store  *mcp.Store
	Logger logging.Logger
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = a2a.NewLog()
	}
	if c.Store == nil {
		c.Store = mcp.NewStore()
	}
	if c.Logger == nil {
		c.Logger = logging.NoOpLogger{}
	}
	return c
}

// Base bundles the shared plumbing of all responders: one generative
// call per prompt plus the mandatory message and context bookkeeping.
// Embed it and add the variant's own behavior on top.
type Base struct {
	name         string
	instructions string
	model        model.Model
	log          *a2a.Log
	store        *mcp.Store
	logger       logging.Logger
}

// NewBase constructs the shared responder plumbing. Missing collaborators
// fall back to in-memory defaults so a responder is always usable.
func NewBase(name, instructions string, cfg Config) Base {
	cfg = cfg.withDefaults()
	return Base{
		name:         name,
		instructions: instructions,
		model:        cfg.Model,
		log:          cfg.Log,
		store:        cfg.Store,
		logger:       logging.WithComponent(cfg.Logger, name),
	}
}

// complete issues a single generative call with the responder's
// instructions attached.
func (b *Base) complete(ctx context.Context, prompt string) (string, error) {
	if b.model == nil {
		return "", fmt.Errorf("%s: no model configured", b.name)
	}
	return b.model.Complete(ctx, model.Request{
		Instructions: b.instructions,
		Messages:     []model.Message{{Role: "user", Content: prompt}},
	})
}

// send records an inter-responder message on the shared log.
func (b *Base) send(threadID, receiver, msgType, content string) {
	b.log.Append(a2a.Message{
		Sender:   b.name,
		Receiver: receiver,
		Type:     msgType,
		Content:  content,
		ThreadID: threadID,
	})
}

// addContext appends a typed snippet to the shared context store. An
// empty source defaults to the responder's own name.
func (b *Base) addContext(threadID, ctxType, content string, importance float64, source string) string {
	if source == "" {
		source = b.name
	}
	return b.store.Add(mcp.Entry{
		Type:       ctxType,
		Content:    content,
		Importance: importance,
		Source:     source,
		ThreadID:   threadID,
	})
}

// degradedAnswer is the reduced-confidence fallback used when the
// generative backend is unreachable. It is always non-empty so failures
// never propagate past the responder boundary.
func (b *Base) degradedAnswer(subject string) string {
	return fmt.Sprintf("I'm currently unable to reach my usual sources, so I can't give a confident answer about %s. Please treat this as reduced-confidence information and try again later.", subject)
}
