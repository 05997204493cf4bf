package model

// Query type tags derived from the question.
const (
	QueryTypeStats      = "stats"
	QueryTypeSearch     = "search"
	QueryTypeComparison = "comparison"
	QueryTypeSummary    = "summary"
	QueryTypeFallback   = "fallback"
	QueryTypeError      = "error"
	QueryTypeUnknown    = "unknown"
)

// AskRequest is the natural-language QA request body.
type AskRequest struct {
	Question       string `json:"question" binding:"required"`
	IncludeSources bool   `json:"include_sources"`
}

// AskResponse carries the answer plus the generated query and raw rows for
// transparency. CypherQuery and RawResults are empty on failure paths.
type AskResponse struct {
	ID          string                   `json:"id"`
	Answer      string                   `json:"answer"`
	CypherQuery string                   `json:"cypher_query,omitempty"`
	RawResults  []map[string]interface{} `json:"raw_results,omitempty"`
	Confidence  float64                  `json:"confidence"`
	QueryType   string                   `json:"query_type"`
}

// ReviewSummary is an LLM-generated digest of a paper's official reviews.
type ReviewSummary struct {
	PaperID          string   `json:"paper_id"`
	OverallSentiment string   `json:"overall_sentiment"`
	MainStrengths    []string `json:"main_strengths"`
	MainWeaknesses   []string `json:"main_weaknesses"`
	KeyQuestions     []string `json:"key_questions"`
	Recommendation   string   `json:"recommendation"`
	SummaryText      string   `json:"summary_text"`
}
