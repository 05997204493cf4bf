package qa

import (
	"context"
)

type MockDriver struct {
	Rows []map[string]interface{}
	Err  error

	QueryExecuted string
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	m.QueryExecuted = query
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows, nil
}

func (m *MockDriver) BuildSchema(ctx context.Context) error { return nil }
func (m *MockDriver) Close(ctx context.Context) error       { return nil }

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error

	Prompts []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
