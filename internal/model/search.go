package model

// RetrievalHit is one fused search result. LexScore and SemScore are the
// per-pass scores; Score is the reciprocal-rank-fusion total the final
// ordering is based on.
type RetrievalHit struct {
	PaperID    string   `json:"id"`
	Title      string   `json:"title"`
	Status     string   `json:"status,omitempty"`
	Conference string   `json:"conference,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Score      float64  `json:"score"`
	LexScore   float64  `json:"lexical_score,omitempty"`
	SemScore   float64  `json:"semantic_score,omitempty"`
}
