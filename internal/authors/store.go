// Package authors is the read model for author search, rankings and detail
// pages, backed by the graph store.
package authors

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/openscholar/papergraph/internal/driver"
	"github.com/openscholar/papergraph/internal/model"
)

// ErrNotFound reports an author id with no matching node.
var ErrNotFound = fmt.Errorf("author not found")

var acceptedStatuses = map[string]bool{
	"poster":    true,
	"spotlight": true,
	"oral":      true,
}

const (
	defaultLimit = 20
	maxLimit     = 200
	// Leaderboard entries need at least this many papers; one-paper authors
	// make acceptance rate meaningless.
	topMinPapers = 2
)

type Store struct {
	Driver driver.GraphDriver
}

func NewStore(d driver.GraphDriver) *Store {
	return &Store{Driver: d}
}

// Search finds authors by case-insensitive name substring, most published
// first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]model.Author, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Author{}, nil
	}

	rows, err := s.Driver.ExecuteQuery(ctx, driver.SearchAuthorsQuery, map[string]interface{}{
		"search": strings.ToLower(query),
		"limit":  clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search authors: %w", err)
	}

	authors := make([]model.Author, 0, len(rows))
	for _, row := range rows {
		authors = append(authors, model.Author{
			AuthorID:   asString(row["authorid"]),
			Name:       asString(row["name"]),
			PaperCount: asInt64(row["paper_count"]),
		})
	}
	return authors, nil
}

// Top ranks authors by paper count, optionally within one conference, with
// accepted-paper counts and acceptance rate.
func (s *Store) Top(ctx context.Context, conference string, limit int) ([]model.AuthorRanking, error) {
	where := ""
	params := map[string]interface{}{"limit": clampLimit(limit), "min_papers": topMinPapers}
	if conference != "" {
		where = "WHERE p.conference = $conference"
		params["conference"] = conference
	}

	query := fmt.Sprintf(`
		MATCH (a:Author)-[:AUTHORED]->(p:Paper)
		%s
		WITH a, count(DISTINCT p) AS paper_count,
		     sum(CASE WHEN p.status IN ['poster', 'spotlight', 'oral'] THEN 1 ELSE 0 END) AS accepted_count
		WHERE paper_count >= $min_papers
		RETURN a.authorid AS authorid, a.name AS name, paper_count, accepted_count,
		       round(toFloat(accepted_count) / paper_count * 100, 2) AS acceptance_rate
		ORDER BY paper_count DESC
		LIMIT $limit`, where)

	rows, err := s.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to rank authors: %w", err)
	}

	rankings := make([]model.AuthorRanking, 0, len(rows))
	for _, row := range rows {
		rate, _ := asFloat(row["acceptance_rate"])
		rankings = append(rankings, model.AuthorRanking{
			Author: model.Author{
				AuthorID:   asString(row["authorid"]),
				Name:       asString(row["name"]),
				PaperCount: asInt64(row["paper_count"]),
			},
			AcceptedCount:  asInt64(row["accepted_count"]),
			AcceptanceRate: rate,
		})
	}
	return rankings, nil
}

// Get fetches one author with their papers, top collaborators and derived
// stats: per-conference paper counts and acceptance percentage.
func (s *Store) Get(ctx context.Context, authorID string) (*model.AuthorDetail, error) {
	rows, err := s.Driver.ExecuteQuery(ctx, driver.GetAuthorByIDQuery,
		map[string]interface{}{"authorid": authorID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch author: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	raw, ok := rows[0]["author"].(map[string]interface{})
	if !ok {
		return nil, ErrNotFound
	}

	detail := &model.AuthorDetail{
		AuthorID:    asString(raw["authorid"]),
		Name:        asString(raw["name"]),
		Papers:      []model.AuthorPaper{},
		Conferences: map[string]int{},
	}

	accepted := 0
	if items, ok := raw["papers"].([]interface{}); ok {
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			paper := model.AuthorPaper{
				ID:         asString(m["id"]),
				Title:      asString(m["title"]),
				Status:     asString(m["status"]),
				Conference: asString(m["conference"]),
			}
			if paper.ID == "" {
				continue
			}
			detail.Papers = append(detail.Papers, paper)

			conf := paper.Conference
			if conf == "" {
				conf = "Unknown"
			}
			detail.Conferences[conf]++
			if acceptedStatuses[paper.Status] {
				accepted++
			}
		}
	}
	detail.PaperCount = len(detail.Papers)
	if detail.PaperCount > 0 {
		detail.AcceptRate = round2(float64(accepted) / float64(detail.PaperCount) * 100)
	}

	detail.Collaborators = decodeCollaborators(raw["collaborators"])
	return detail, nil
}

// Collaborators lists every co-author with shared-paper ids, most frequent
// first. An unknown author id is ErrNotFound; an author with no co-authors
// is an empty list.
func (s *Store) Collaborators(ctx context.Context, authorID string, limit int) ([]model.Collaborator, error) {
	rows, err := s.Driver.ExecuteQuery(ctx, driver.AuthorCollaboratorsQuery, map[string]interface{}{
		"authorid": authorID,
		"limit":    clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch collaborators: %w", err)
	}

	if len(rows) == 0 {
		check, err := s.Driver.ExecuteQuery(ctx, driver.AuthorExistsQuery,
			map[string]interface{}{"authorid": authorID})
		if err != nil {
			return nil, fmt.Errorf("failed to check author: %w", err)
		}
		if len(check) == 0 {
			return nil, ErrNotFound
		}
		return []model.Collaborator{}, nil
	}

	collaborators := make([]model.Collaborator, 0, len(rows))
	for _, row := range rows {
		collaborators = append(collaborators, model.Collaborator{
			AuthorID:           asString(row["authorid"]),
			Name:               asString(row["name"]),
			CollaborationCount: asInt64(row["collaboration_count"]),
			PaperIDs:           asStringSlice(row["paper_ids"]),
		})
	}
	return collaborators, nil
}

// decodeCollaborators handles the {authorid, name, count} maps the detail
// query collects.
func decodeCollaborators(v interface{}) []model.Collaborator {
	items, ok := v.([]interface{})
	if !ok {
		return []model.Collaborator{}
	}
	collaborators := make([]model.Collaborator, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		collab := model.Collaborator{
			AuthorID:           asString(m["authorid"]),
			Name:               asString(m["name"]),
			CollaborationCount: asInt64(m["count"]),
		}
		if collab.AuthorID == "" {
			continue
		}
		collaborators = append(collaborators, collab)
	}
	return collaborators
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v interface{}) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
