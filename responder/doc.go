// Package responder implements the capability-specific units that turn
// a user query into a natural-language answer: the classifier, the
// router, the five domain responders (weather, sports, news, stocks,
// health), the sufficiency evaluator and the final synthesizer.
//
// Every responder wraps one generative-completion call plus the
// mandatory bookkeeping on the shared message log (a2a) and context
// store (mcp). Failures degrade inside the responder boundary: data
// source errors fall back to general-knowledge answers, model errors
// fall back to fixed reduced-confidence text, and parse errors fall back
// to deterministic defaults. No responder ever propagates a failure that
// would abort a run.
package responder
