package authors

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openscholar/papergraph/internal/driver"
)

// MockDriver answers each query from a routing table keyed on a substring of
// the query text.
type MockDriver struct {
	Responses map[string][]map[string]interface{}
	Err       error

	Queries []string
	Params  []map[string]interface{}
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	m.Queries = append(m.Queries, query)
	m.Params = append(m.Params, params)
	if m.Err != nil {
		return nil, m.Err
	}
	for key, rows := range m.Responses {
		if strings.Contains(query, key) {
			return rows, nil
		}
	}
	return nil, nil
}

func (m *MockDriver) BuildSchema(ctx context.Context) error { return nil }
func (m *MockDriver) Close(ctx context.Context) error       { return nil }

var _ driver.GraphDriver = (*MockDriver)(nil)

func TestSearch(t *testing.T) {
	d := &MockDriver{Responses: map[string][]map[string]interface{}{
		"toLower(a.name) CONTAINS $search": {
			{"authorid": "~Ada1", "name": "Ada Lovelace", "paper_count": int64(5)},
			{"authorid": "~Adam1", "name": "Adam Smith", "paper_count": int64(2)},
		},
	}}
	s := NewStore(d)

	authors, err := s.Search(context.Background(), "Ada", 20)
	require.NoError(t, err)

	require.Len(t, authors, 2)
	assert.Equal(t, "~Ada1", authors[0].AuthorID)
	assert.Equal(t, int64(5), authors[0].PaperCount)
	// The name filter travels lowercased.
	assert.Equal(t, "ada", d.Params[0]["search"])
}

func TestSearchEmptyQuery(t *testing.T) {
	d := &MockDriver{}
	s := NewStore(d)

	authors, err := s.Search(context.Background(), "   ", 20)
	require.NoError(t, err)
	assert.Empty(t, authors)
	assert.Empty(t, d.Queries, "blank query never reaches the store")
}

func TestTop(t *testing.T) {
	d := &MockDriver{Responses: map[string][]map[string]interface{}{
		"acceptance_rate": {
			{"authorid": "~Ada1", "name": "Ada", "paper_count": int64(10),
				"accepted_count": int64(7), "acceptance_rate": 70.0},
		},
	}}
	s := NewStore(d)

	rankings, err := s.Top(context.Background(), "", 50)
	require.NoError(t, err)

	require.Len(t, rankings, 1)
	assert.Equal(t, int64(7), rankings[0].AcceptedCount)
	assert.Equal(t, 70.0, rankings[0].AcceptanceRate)
	// Single-paper authors are excluded from the leaderboard.
	assert.Equal(t, topMinPapers, d.Params[0]["min_papers"])
	assert.NotContains(t, d.Queries[0], "$conference")
}

func TestTopConferenceFilter(t *testing.T) {
	d := &MockDriver{}
	s := NewStore(d)

	_, err := s.Top(context.Background(), "ICLR", 50)
	require.NoError(t, err)

	assert.Contains(t, d.Queries[0], "p.conference = $conference")
	assert.Equal(t, "ICLR", d.Params[0]["conference"])
}

func TestGetComputesStats(t *testing.T) {
	d := &MockDriver{Responses: map[string][]map[string]interface{}{
		"MATCH (a:Author {authorid: $authorid})": {{
			"author": map[string]interface{}{
				"authorid": "~Ada1",
				"name":     "Ada Lovelace",
				"papers": []interface{}{
					map[string]interface{}{"id": "p1", "title": "A", "status": "oral", "conference": "ICLR"},
					map[string]interface{}{"id": "p2", "title": "B", "status": "rejected", "conference": "ICLR"},
					map[string]interface{}{"id": "p3", "title": "C", "status": "poster", "conference": "ICML"},
				},
				"collaborators": []interface{}{
					map[string]interface{}{"authorid": "~Grace1", "name": "Grace", "count": int64(2)},
				},
			},
		}},
	}}
	s := NewStore(d)

	detail, err := s.Get(context.Background(), "~Ada1")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", detail.Name)
	assert.Equal(t, 3, detail.PaperCount)
	assert.Equal(t, map[string]int{"ICLR": 2, "ICML": 1}, detail.Conferences)
	// 2 of 3 papers accepted.
	assert.Equal(t, 66.67, detail.AcceptRate)
	require.Len(t, detail.Collaborators, 1)
	assert.Equal(t, "~Grace1", detail.Collaborators[0].AuthorID)
	assert.Equal(t, int64(2), detail.Collaborators[0].CollaborationCount)
}

func TestGetNoPapers(t *testing.T) {
	d := &MockDriver{Responses: map[string][]map[string]interface{}{
		"MATCH (a:Author {authorid: $authorid})": {{
			"author": map[string]interface{}{
				"authorid":      "~New1",
				"name":          "New Author",
				"papers":        []interface{}{},
				"collaborators": []interface{}{},
			},
		}},
	}}
	s := NewStore(d)

	detail, err := s.Get(context.Background(), "~New1")
	require.NoError(t, err)
	assert.Equal(t, 0, detail.PaperCount)
	assert.Equal(t, 0.0, detail.AcceptRate)
	assert.Empty(t, detail.Collaborators)
}

func TestGetNotFound(t *testing.T) {
	s := NewStore(&MockDriver{})
	_, err := s.Get(context.Background(), "~Missing1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollaborators(t *testing.T) {
	d := &MockDriver{Responses: map[string][]map[string]interface{}{
		"collaboration_count": {
			{"authorid": "~Grace1", "name": "Grace", "collaboration_count": int64(3),
				"paper_ids": []interface{}{"p1", "p2", "p3"}},
		},
	}}
	s := NewStore(d)

	collabs, err := s.Collaborators(context.Background(), "~Ada1", 50)
	require.NoError(t, err)

	require.Len(t, collabs, 1)
	assert.Equal(t, int64(3), collabs[0].CollaborationCount)
	assert.Equal(t, []string{"p1", "p2", "p3"}, collabs[0].PaperIDs)
}

func TestCollaboratorsUnknownAuthor(t *testing.T) {
	// No collaborator rows and no author row: not found.
	s := NewStore(&MockDriver{})
	_, err := s.Collaborators(context.Background(), "~Missing1", 50)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollaboratorsSoloAuthor(t *testing.T) {
	d := &MockDriver{Responses: map[string][]map[string]interface{}{
		"RETURN a.authorid AS authorid": {
			{"authorid": "~Solo1"},
		},
	}}
	s := NewStore(d)

	collabs, err := s.Collaborators(context.Background(), "~Solo1", 50)
	require.NoError(t, err)
	assert.Empty(t, collabs)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultLimit, clampLimit(0))
	assert.Equal(t, defaultLimit, clampLimit(-5))
	assert.Equal(t, 50, clampLimit(50))
	assert.Equal(t, maxLimit, clampLimit(5000))
}

func TestSearchStoreError(t *testing.T) {
	s := NewStore(&MockDriver{Err: fmt.Errorf("down")})
	_, err := s.Search(context.Background(), "ada", 20)
	assert.Error(t, err)
}
