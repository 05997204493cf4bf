// Package search implements hybrid paper retrieval: a lexical pass over
// titles, authors and keywords fused with a semantic pass over precomputed
// abstract embeddings.
package search

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/openscholar/papergraph/internal/driver"
	"github.com/openscholar/papergraph/internal/llm"
	"github.com/openscholar/papergraph/internal/model"
	"github.com/openscholar/papergraph/pkg/logger"
)

// Retriever runs the two candidate passes concurrently and fuses them.
type Retriever struct {
	Driver         driver.GraphDriver
	Embedder       llm.EmbedderClient
	RRFK           int
	CandidateLimit int
}

func NewRetriever(d driver.GraphDriver, embedder llm.EmbedderClient, rrfK, candidateLimit int) *Retriever {
	if rrfK <= 0 {
		rrfK = 60
	}
	if candidateLimit <= 0 {
		candidateLimit = 50
	}
	return &Retriever{Driver: d, Embedder: embedder, RRFK: rrfK, CandidateLimit: candidateLimit}
}

// Result is a fused hit list plus a flag telling the caller whether the
// semantic pass was skipped because embeddings were unavailable.
type Result struct {
	Hits             []model.RetrievalHit
	SemanticDegraded bool
}

// Search returns up to limit fused hits for the query. An empty query yields
// an empty result. Embedding failures degrade to lexical-only results rather
// than failing the request; a store failure on the lexical pass is an error.
func (r *Retriever) Search(ctx context.Context, query string, limit int) (Result, error) {
	if limit <= 0 {
		return Result{}, fmt.Errorf("limit must be positive, got %d", limit)
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, nil
	}

	var (
		lexical  []model.RetrievalHit
		semantic []model.RetrievalHit
		degraded bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hits, err := r.lexicalPass(gctx, query)
		if err != nil {
			return fmt.Errorf("lexical pass: %w", err)
		}
		lexical = hits
		return nil
	})

	g.Go(func() error {
		hits, ok := r.semanticPass(gctx, query)
		if !ok {
			degraded = true
			return nil
		}
		semantic = hits
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	hits := fuseRRF(lexical, semantic, r.RRFK, limit)
	return Result{Hits: hits, SemanticDegraded: degraded}, nil
}

// lexicalPass fetches substring candidates from the store and scores them
// client-side: title matches above author/keyword matches, exact matches
// above substring matches.
func (r *Retriever) lexicalPass(ctx context.Context, query string) ([]model.RetrievalHit, error) {
	rows, err := r.Driver.ExecuteQuery(ctx, driver.LexicalSearchQuery, map[string]interface{}{
		"query": strings.ToLower(query),
		"limit": r.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]model.RetrievalHit, 0, len(rows))
	for _, row := range rows {
		hit := hitFromRow(row)
		hit.LexScore = lexicalScore(query, hit.Title, hit.Authors, asStringSlice(row["keywords"]))
		if hit.LexScore > 0 {
			hits = append(hits, hit)
		}
	}
	sortByScore(hits, func(h model.RetrievalHit) float64 { return h.LexScore })
	return hits, nil
}

// semanticPass embeds the query and ranks papers by cosine similarity
// against their precomputed abstract embeddings. The second return value is
// false when the pass could not run; the caller reports degraded results
// instead of failing.
func (r *Retriever) semanticPass(ctx context.Context, query string) ([]model.RetrievalHit, bool) {
	if r.Embedder == nil {
		return nil, false
	}

	vec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn().Err(err).Msg("query embedding failed, degrading to lexical-only")
		return nil, false
	}

	rows, err := r.Driver.ExecuteQuery(ctx, driver.AbstractEmbeddingsQuery, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("abstract embedding fetch failed, degrading to lexical-only")
		return nil, false
	}

	hits := make([]model.RetrievalHit, 0, len(rows))
	for _, row := range rows {
		emb := asFloat32Slice(row["embedding"])
		if len(emb) == 0 {
			continue
		}
		hit := hitFromRow(row)
		hit.SemScore = cosineSimilarity(vec, emb)
		if hit.SemScore > 0 {
			hits = append(hits, hit)
		}
	}
	sortByScore(hits, func(h model.RetrievalHit) float64 { return h.SemScore })
	if len(hits) > r.CandidateLimit {
		hits = hits[:r.CandidateLimit]
	}
	return hits, true
}

// lexicalScore weights field matches: exact title 10, substring title 5,
// exact author 4, substring author 2, exact keyword 3, substring keyword 1.5.
func lexicalScore(query, title string, authors, keywords []string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	score := 0.0
	lowerTitle := strings.ToLower(title)
	if lowerTitle == q {
		score += 10
	} else if strings.Contains(lowerTitle, q) {
		score += 5
	}

	for _, author := range authors {
		lower := strings.ToLower(author)
		if lower == q {
			score += 4
		} else if strings.Contains(lower, q) {
			score += 2
		}
	}

	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		if lower == q {
			score += 3
		} else if strings.Contains(lower, q) {
			score += 1.5
		}
	}

	return score
}

func hitFromRow(row map[string]interface{}) model.RetrievalHit {
	return model.RetrievalHit{
		PaperID:    asString(row["id"]),
		Title:      asString(row["title"]),
		Status:     asString(row["status"]),
		Conference: asString(row["conference"]),
		Authors:    asStringSlice(row["authors"]),
	}
}
