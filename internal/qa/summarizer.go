package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/openscholar/papergraph/internal/llm"
	"github.com/openscholar/papergraph/internal/model"
)

// Summarizer produces an LLM digest of a paper's official reviews.
type Summarizer struct {
	LLM llm.LLMClient
}

func NewSummarizer(llmClient llm.LLMClient) *Summarizer {
	return &Summarizer{LLM: llmClient}
}

// Fields included in the prompt, in presentation order.
var summaryFields = []string{"rating", "summary", "strengths", "weaknesses", "questions"}

// Summarize asks the model for a structured digest of the given reviews.
// Model output is untrusted; it is parsed and re-shaped before returning.
func (s *Summarizer) Summarize(ctx context.Context, paperID, paperTitle string, reviews []model.Review) (*model.ReviewSummary, error) {
	if len(reviews) == 0 {
		return nil, fmt.Errorf("no reviews to summarize")
	}

	var b strings.Builder
	for i, review := range reviews {
		b.WriteString(fmt.Sprintf("\n--- Review %d ---\n", i+1))
		if review.Rating != nil {
			b.WriteString(fmt.Sprintf("Rating: %v\n", *review.Rating))
		}
		for _, field := range summaryFields {
			if field == "rating" {
				continue
			}
			if value, ok := review.Content[field]; ok {
				text := strings.TrimSpace(value.Display())
				if text != "" {
					label := strings.ToUpper(field[:1]) + field[1:]
					b.WriteString(fmt.Sprintf("%s: %s\n", label, text))
				}
			}
		}
	}

	raw, err := s.LLM.Generate(ctx, summaryPrompt(paperTitle, b.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to generate review summary: %w", err)
	}

	parsed, err := parseJSON[struct {
		OverallSentiment string   `json:"overall_sentiment"`
		MainStrengths    []string `json:"main_strengths"`
		MainWeaknesses   []string `json:"main_weaknesses"`
		KeyQuestions     []string `json:"key_questions"`
		Recommendation   string   `json:"recommendation"`
		SummaryText      string   `json:"summary_text"`
	}](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse review summary: %w", err)
	}

	return &model.ReviewSummary{
		PaperID:          paperID,
		OverallSentiment: parsed.OverallSentiment,
		MainStrengths:    parsed.MainStrengths,
		MainWeaknesses:   parsed.MainWeaknesses,
		KeyQuestions:     parsed.KeyQuestions,
		Recommendation:   parsed.Recommendation,
		SummaryText:      parsed.SummaryText,
	}, nil
}
