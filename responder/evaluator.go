package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/agentrelay/core"
	"github.com/tidwall/gjson"
)

const evaluatorInstructions = "You are a quality evaluator that judges whether a set of responses fully addresses a user query."

// Judgment is the evaluator's structured verdict on the combined answers.
type Judgment struct {
	NeedsMore bool   `json:"needs_more_info"`
	Missing   string `json:"missing_info"`
}

// Evaluator inspects the accumulated responses and decides whether more
// responders are needed.
type Evaluator struct {
	Base
}

// NewEvaluator creates the sufficiency evaluator.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{Base: NewBase("Evaluator", evaluatorInstructions, cfg)}
}

// Evaluate requests a two-field judgment from the backend and parses it
// defensively. Model failure or total parse failure defaults to a
// sufficient verdict so the run terminates rather than retrying forever.
// The missing-info explanation is recorded on the context store
// (importance 0.8).
func (e *Evaluator) Evaluate(ctx context.Context, threadID, query string, responses map[core.ResponderName]string) Judgment {
	raw, err := e.complete(ctx, evaluatePrompt(query, responses))

	var j Judgment
	if err != nil {
		e.logger.Warn("evaluation degraded to sufficient", "error", err)
		j = Judgment{NeedsMore: false, Missing: "evaluator unavailable; treating responses as sufficient"}
	} else {
		j = ParseJudgment(raw)
	}

	e.addContext(threadID, "evaluation", fmt.Sprintf("Response evaluation: %s", j.Missing), 0.8, "")
	return j
}

// ParseJudgment applies the two-stage parse contract to raw model
// output: a strict JSON unmarshal first, then tolerant field extraction
// from sloppy JSON, then a keyword scan for the sufficiency marker. On
// total failure the verdict defaults to sufficient.
func ParseJudgment(raw string) Judgment {
	trimmed := strings.TrimSpace(raw)

	var j Judgment
	if err := json.Unmarshal([]byte(trimmed), &j); err == nil {
		if j.Missing == "" {
			j.Missing = trimmed
		}
		return j
	}

	if v := gjson.Get(trimmed, "needs_more_info"); v.Exists() {
		missing := gjson.Get(trimmed, "missing_info").String()
		if missing == "" {
			missing = trimmed
		}
		return Judgment{NeedsMore: v.Bool(), Missing: missing}
	}

	// INSUFFICIENT must be checked first: it contains SUFFICIENT.
	upper := strings.ToUpper(trimmed)
	if strings.Contains(upper, "INSUFFICIENT") {
		return Judgment{NeedsMore: true, Missing: trimmed}
	}
	if strings.Contains(upper, "SUFFICIENT") {
		return Judgment{NeedsMore: false, Missing: trimmed}
	}

	return Judgment{NeedsMore: false, Missing: trimmed}
}

func evaluatePrompt(query string, responses map[core.ResponderName]string) string {
	return fmt.Sprintf(`User Query: %s

Responder Answers:
%s

Evaluate if these answers fully address the user's query. Consider:
1. Are all aspects of the query addressed?
2. Is the information accurate and complete?
3. Is additional information needed from other responders?

Respond with a JSON object of the form {"needs_more_info": true|false, "missing_info": "<explanation>"}.
If you cannot produce JSON, conclude with the single word SUFFICIENT if the answers adequately address the query, or INSUFFICIENT followed by what specific information is missing.`, query, FormatResponses(responses))
}

// FormatResponses renders a response map as deterministic prompt text,
// ordered by responder name.
func FormatResponses(responses map[core.ResponderName]string) string {
	names := make([]string, 0, len(responses))
	for name := range responses {
		names = append(names, string(name))
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:\n%s", name, responses[core.ResponderName(name)])
	}
	return strings.Join(parts, "\n\n")
}
