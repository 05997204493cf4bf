// Package qa translates natural-language questions into Cypher, executes
// them against the paper graph, and renders the rows back into prose.
package qa

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openscholar/papergraph/internal/driver"
	"github.com/openscholar/papergraph/internal/llm"
	"github.com/openscholar/papergraph/internal/model"
	"github.com/openscholar/papergraph/pkg/logger"
)

// Request lifecycle states.
type State string

const (
	StateReceived    State = "received"
	StateTranslating State = "translating"
	StateValidating  State = "validating"
	StateExecuting   State = "executing"
	StateAnswering   State = "answering"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Failure reasons for the FAILED state.
const (
	ReasonInvalidQuery   = "invalid query shape"
	ReasonExecutionError = "execution error"
	ReasonUnavailable    = "upstream unavailable"
	ReasonCancelled      = "cancelled"
)

// User-safe fallback answers. Internal detail stays in the logs.
const (
	fallbackAnswer = "Sorry, I could not answer that question. Try rephrasing it, " +
		"or ask about papers, authors, reviews or conference statistics."
	unavailableAnswer = "The question-answering feature is temporarily unavailable. Please try again later."
)

// Result is the full outcome of one Ask call.
type Result struct {
	ID            string
	State         State
	FailureReason string
	Answer        string
	CypherQuery   string
	Rows          []map[string]interface{}
	Confidence    float64
	QueryType     string
}

// Translator drives the translate -> validate -> execute -> answer pipeline.
// It keeps no per-request state; every call is independent.
type Translator struct {
	Driver       driver.GraphDriver
	LLM          llm.LLMClient
	Schema       string
	MaxRowsToLLM int
}

func NewTranslator(d driver.GraphDriver, llmClient llm.LLMClient, maxRowsToLLM int) *Translator {
	if maxRowsToLLM <= 0 {
		maxRowsToLLM = 50
	}
	return &Translator{
		Driver:       d,
		LLM:          llmClient,
		Schema:       GraphSchema,
		MaxRowsToLLM: maxRowsToLLM,
	}
}

// Ask answers a natural-language question. It always returns a usable
// Result: every failure path carries a user-safe answer, never raw error
// detail. Cancellation at any stage stops the pipeline immediately.
func (t *Translator) Ask(ctx context.Context, question string) *Result {
	res := &Result{
		ID:        uuid.New().String(),
		State:     StateReceived,
		QueryType: classifyQuestion(question),
	}
	log := logger.Get().With().Str("qa_id", res.ID).Logger()

	// TRANSLATING: one attempt, one retry carrying the failure reason.
	res.State = StateTranslating
	query, failErr := t.translate(ctx, question, "")
	if failErr == nil {
		res.State = StateValidating
		failErr = validateQuery(query)
	}
	if failErr != nil {
		if ctx.Err() != nil {
			return t.fail(res, ReasonCancelled, unavailableAnswer, 0)
		}
		if isTransportError(failErr) {
			log.Error().Err(failErr).Msg("translation service unavailable")
			return t.fail(res, ReasonUnavailable, unavailableAnswer, 0)
		}
		log.Warn().Err(failErr).Msg("first translation attempt rejected, retrying")

		query, failErr = t.translate(ctx, question, failErr.Error())
		if failErr == nil {
			failErr = validateQuery(query)
		}
		if failErr != nil {
			if ctx.Err() != nil {
				return t.fail(res, ReasonCancelled, unavailableAnswer, 0)
			}
			if isTransportError(failErr) {
				log.Error().Err(failErr).Msg("translation service unavailable")
				return t.fail(res, ReasonUnavailable, unavailableAnswer, 0)
			}
			log.Warn().Err(failErr).Str("query", query).Msg("generated query rejected")
			return t.fail(res, ReasonInvalidQuery, fallbackAnswer, 0.1)
		}
	}
	res.CypherQuery = query

	// EXECUTING: bounded by the driver's timeout and row cap. A query the
	// store rejects will not get better by re-running; no retry.
	res.State = StateExecuting
	rows, err := t.Driver.ExecuteQuery(ctx, query, nil)
	if err != nil {
		if ctx.Err() != nil {
			return t.fail(res, ReasonCancelled, unavailableAnswer, 0)
		}
		log.Warn().Err(err).Str("query", query).Msg("query execution failed")
		return t.fail(res, ReasonExecutionError, fallbackAnswer, 0.2)
	}
	res.Rows = rows

	// ANSWERING: small structured results are formatted directly; anything
	// bigger goes through a second model call.
	res.State = StateAnswering
	res.Answer, res.Confidence = t.answer(ctx, question, rows, log)

	res.State = StateDone
	return res
}

func (t *Translator) translate(ctx context.Context, question, previousFailure string) (string, error) {
	var prompt string
	if previousFailure == "" {
		prompt = translatePrompt(t.Schema, question)
	} else {
		prompt = retryPrompt(t.Schema, question, previousFailure)
	}

	raw, err := t.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", transportError{err}
	}
	return extractQuery(raw), nil
}

func (t *Translator) answer(ctx context.Context, question string, rows []map[string]interface{}, log zerolog.Logger) (string, float64) {
	if len(rows) == 0 {
		return "The query ran successfully but returned no matching results.", 0.5
	}

	if direct, ok := formatRowsDirect(rows); ok {
		return direct, 0.9
	}

	capped := rows
	if len(capped) > t.MaxRowsToLLM {
		capped = capped[:t.MaxRowsToLLM]
	}

	prose, err := t.LLM.Generate(ctx, answerPrompt(question, capped))
	if err != nil {
		// The rows are still good; fall back to a plain listing rather
		// than discarding them.
		log.Warn().Err(err).Msg("answer generation failed, formatting rows directly")
		return formatRowsFallback(capped), 0.5
	}
	return strings.TrimSpace(prose), 0.8
}

// formatRowsFallback renders rows as a plain text listing when the prose
// model is unavailable.
func formatRowsFallback(rows []map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Found %d result(s):\n", len(rows)))
	for i, row := range rows {
		if i >= 10 {
			b.WriteString(fmt.Sprintf("... and %d more\n", len(rows)-i))
			break
		}
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", humanizeKey(k), row[k]))
		}
		b.WriteString("- " + strings.Join(parts, ", ") + "\n")
	}
	return strings.TrimSpace(b.String())
}

func (t *Translator) fail(res *Result, reason, answer string, confidence float64) *Result {
	res.State = StateFailed
	res.FailureReason = reason
	res.Answer = answer
	res.Confidence = confidence
	res.CypherQuery = ""
	res.Rows = nil
	if reason == ReasonUnavailable || reason == ReasonInvalidQuery {
		res.QueryType = model.QueryTypeFallback
	}
	if reason == ReasonExecutionError {
		res.QueryType = model.QueryTypeError
	}
	return res
}

type transportError struct{ err error }

func (e transportError) Error() string { return e.err.Error() }
func (e transportError) Unwrap() error { return e.err }

func isTransportError(err error) bool {
	_, ok := err.(transportError)
	return ok
}

// classifyQuestion tags the question with a coarse query type based on its
// wording.
func classifyQuestion(question string) string {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, "how many", "count", "number of", "acceptance rate"):
		return model.QueryTypeStats
	case containsAny(q, "compare", " vs ", "versus", "difference between"):
		return model.QueryTypeComparison
	case containsAny(q, "summar", "weakness", "strength", "sentiment"):
		return model.QueryTypeSummary
	case containsAny(q, "which", "what", "who", "list", "find", "show"):
		return model.QueryTypeSearch
	default:
		return model.QueryTypeUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// formatRowsDirect renders a small aggregate result without a model call.
// It handles the single-row, few-column shape that counts and averages
// produce.
func formatRowsDirect(rows []map[string]interface{}) (string, bool) {
	if len(rows) != 1 || len(rows[0]) == 0 || len(rows[0]) > 2 {
		return "", false
	}

	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", humanizeKey(k), rows[0][k]))
	}
	return strings.Join(parts, ", "), true
}

func humanizeKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
