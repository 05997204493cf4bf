package search

import (
	"context"

	"github.com/openscholar/papergraph/internal/driver"
)

type MockDriver struct {
	LexicalRows   []map[string]interface{}
	EmbeddingRows []map[string]interface{}
	Err           error

	Queries []string
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	if query == driver.AbstractEmbeddingsQuery {
		return m.EmbeddingRows, nil
	}
	return m.LexicalRows, nil
}

func (m *MockDriver) BuildSchema(ctx context.Context) error { return nil }
func (m *MockDriver) Close(ctx context.Context) error       { return nil }

type MockEmbedder struct {
	Vector []float32
	Err    error
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}
