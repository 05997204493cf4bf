package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/papergraph/internal/model"
)

func paperRow(id, title string, authors, keywords []string) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "title": title, "status": "poster", "conference": "ICLR",
		"authors": authors, "keywords": keywords,
	}
}

func embeddingRow(id, title string, embedding []float64) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "title": title, "status": "poster", "conference": "ICLR",
		"authors": []interface{}{}, "embedding": embedding,
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	r := NewRetriever(&MockDriver{}, &MockEmbedder{}, 60, 50)

	result, err := r.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearch_InvalidLimit(t *testing.T) {
	r := NewRetriever(&MockDriver{}, &MockEmbedder{}, 60, 50)

	_, err := r.Search(context.Background(), "transformers", 0)
	assert.Error(t, err)
}

func TestSearch_LexicalOnlyWhenEmbedderFails(t *testing.T) {
	d := &MockDriver{
		LexicalRows: []map[string]interface{}{
			paperRow("p1", "Transformers at scale", nil, []string{"transformers"}),
		},
	}
	r := NewRetriever(d, &MockEmbedder{Err: fmt.Errorf("service down")}, 60, 50)

	result, err := r.Search(context.Background(), "transformers", 10)
	require.NoError(t, err)
	assert.True(t, result.SemanticDegraded)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "p1", result.Hits[0].PaperID)
}

func TestSearch_NilEmbedderDegrades(t *testing.T) {
	d := &MockDriver{
		LexicalRows: []map[string]interface{}{
			paperRow("p1", "Graph neural nets", nil, nil),
		},
	}
	r := NewRetriever(d, nil, 60, 50)

	result, err := r.Search(context.Background(), "graph", 10)
	require.NoError(t, err)
	assert.True(t, result.SemanticDegraded)
	require.Len(t, result.Hits, 1)
}

func TestSearch_FusesBothPasses(t *testing.T) {
	d := &MockDriver{
		LexicalRows: []map[string]interface{}{
			paperRow("both", "diffusion models", nil, nil),
			paperRow("lex-only", "a survey of diffusion", nil, nil),
		},
		EmbeddingRows: []map[string]interface{}{
			embeddingRow("both", "diffusion models", []float64{1, 0}),
			embeddingRow("sem-only", "score matching", []float64{0.9, 0.1}),
		},
	}
	r := NewRetriever(d, &MockEmbedder{Vector: []float32{1, 0}}, 60, 50)

	result, err := r.Search(context.Background(), "diffusion", 10)
	require.NoError(t, err)
	assert.False(t, result.SemanticDegraded)
	require.NotEmpty(t, result.Hits)

	// Appearing in both lists must rank at least as high as appearing in one.
	assert.Equal(t, "both", result.Hits[0].PaperID)
}

func TestSearch_NoMatches(t *testing.T) {
	r := NewRetriever(&MockDriver{}, &MockEmbedder{Vector: []float32{1, 0}}, 60, 50)

	result, err := r.Search(context.Background(), "nonexistent topic", 10)
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	var rows []map[string]interface{}
	for i := 0; i < 20; i++ {
		rows = append(rows, paperRow(fmt.Sprintf("p%02d", i), fmt.Sprintf("deep learning %d", i), nil, nil))
	}
	r := NewRetriever(&MockDriver{LexicalRows: rows}, nil, 60, 50)

	result, err := r.Search(context.Background(), "deep learning", 5)
	require.NoError(t, err)
	assert.Len(t, result.Hits, 5)
}

func TestLexicalScore_TitleOutweighsAuthorAndKeyword(t *testing.T) {
	title := lexicalScore("attention", "Attention is all you need", nil, nil)
	author := lexicalScore("attention", "Unrelated", []string{"Dr Attention"}, nil)
	keyword := lexicalScore("attention", "Unrelated", nil, []string{"attention"})

	assert.Greater(t, title, author)
	assert.Greater(t, title, keyword)
}

func TestLexicalScore_ExactBeatsSubstring(t *testing.T) {
	exact := lexicalScore("attention", "attention", nil, nil)
	substring := lexicalScore("attention", "attention mechanisms revisited", nil, nil)
	assert.Greater(t, exact, substring)
}

func TestFuseRRF_BothListsRankAtLeastAsHighAsOne(t *testing.T) {
	both := model.RetrievalHit{PaperID: "both", LexScore: 5, SemScore: 0.9}
	lexOnly := model.RetrievalHit{PaperID: "lex", LexScore: 5}
	semOnly := model.RetrievalHit{PaperID: "sem", SemScore: 0.9}

	fused := fuseRRF(
		[]model.RetrievalHit{both, lexOnly},
		[]model.RetrievalHit{both, semOnly},
		60, 10,
	)

	require.Len(t, fused, 3)
	assert.Equal(t, "both", fused[0].PaperID)
	for _, hit := range fused[1:] {
		assert.LessOrEqual(t, hit.Score, fused[0].Score)
	}
}

func TestFuseRRF_Deterministic(t *testing.T) {
	lex := []model.RetrievalHit{
		{PaperID: "b", LexScore: 3},
		{PaperID: "a", LexScore: 3},
	}

	first := fuseRRF(lex, nil, 60, 10)
	second := fuseRRF(lex, nil, 60, 10)
	assert.Equal(t, first, second)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}
