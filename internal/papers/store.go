// Package papers is the read model for paper listings, detail pages and
// corpus statistics, backed by the graph store.
package papers

import (
	"context"
	"fmt"
	"strings"

	"github.com/openscholar/papergraph/internal/driver"
	"github.com/openscholar/papergraph/internal/model"
)

// Filter narrows and pages a paper listing. Zero values mean "no filter".
type Filter struct {
	Conference string
	Status     string
	Keyword    string
	Title      string

	SortBy string // one of: cdate, title, rating
	Order  string // asc or desc

	Page     int
	PageSize int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Columns the listing may sort by. Anything else falls back to cdate so
// user-supplied sort keys never reach the query text.
var sortColumns = map[string]string{
	"cdate":  "p.creation_date",
	"title":  "p.title",
	"rating": "avg_rating",
}

type Store struct {
	Driver driver.GraphDriver
}

func NewStore(d driver.GraphDriver) *Store {
	return &Store{Driver: d}
}

// List returns one page of papers matching the filter, newest first by
// default.
func (s *Store) List(ctx context.Context, f Filter) (*model.PaperList, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	where, params := buildWhere(f)

	countRows, err := s.Driver.ExecuteQuery(ctx,
		"MATCH (p:Paper) "+where+" RETURN count(p) AS total", params)
	if err != nil {
		return nil, fmt.Errorf("failed to count papers: %w", err)
	}
	total := int64(0)
	if len(countRows) > 0 {
		total = asInt64(countRows[0]["total"])
	}

	orderBy := sortColumns["cdate"]
	if col, ok := sortColumns[f.SortBy]; ok {
		orderBy = col
	}
	direction := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		direction = "ASC"
	}

	params["skip"] = (f.Page - 1) * f.PageSize
	params["limit"] = f.PageSize

	query := fmt.Sprintf(`
		MATCH (p:Paper) %s
		OPTIONAL MATCH (p)<-[au:AUTHORED]-(a:Author)
		WITH p, a ORDER BY au.order
		WITH p, collect(a.name) AS authors
		OPTIONAL MATCH (p)-[:HAS_REVIEW]->(r:Review {review_type: 'official_review'})
		WITH p, authors, avg(r.rating) AS avg_rating
		RETURN p.id AS id, p.title AS title, p.status AS status,
		       p.conference AS conference, p.keywords AS keywords,
		       p.creation_date AS creation_date, p.forum_link AS forum_link,
		       p.pdf_link AS pdf_link, authors, avg_rating
		ORDER BY %s %s
		SKIP $skip LIMIT $limit`, where, orderBy, direction)

	rows, err := s.Driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}

	list := &model.PaperList{
		Papers:   make([]model.Paper, 0, len(rows)),
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	for _, row := range rows {
		list.Papers = append(list.Papers, paperFromRow(row))
	}
	return list, nil
}

func buildWhere(f Filter) (string, map[string]interface{}) {
	conditions := []string{}
	params := map[string]interface{}{}

	if f.Conference != "" {
		conditions = append(conditions, "p.conference = $conference")
		params["conference"] = f.Conference
	}
	if f.Status != "" {
		conditions = append(conditions, "p.status = $status")
		params["status"] = f.Status
	}
	if f.Keyword != "" {
		conditions = append(conditions, "any(kw IN p.keywords WHERE toLower(kw) CONTAINS $keyword)")
		params["keyword"] = strings.ToLower(f.Keyword)
	}
	if f.Title != "" {
		conditions = append(conditions, "toLower(p.title) CONTAINS $title")
		params["title"] = strings.ToLower(f.Title)
	}

	if len(conditions) == 0 {
		return "", params
	}
	return "WHERE " + strings.Join(conditions, " AND "), params
}

// ErrNotFound reports a paper id with no matching node.
var ErrNotFound = fmt.Errorf("paper not found")

// Get fetches one paper with its authors and full review set. Review content
// is decoded from the stored JSON; malformed content yields empty fields, not
// an error.
func (s *Store) Get(ctx context.Context, paperID string) (*model.PaperDetail, error) {
	rows, err := s.Driver.ExecuteQuery(ctx, driver.GetPaperByIDQuery,
		map[string]interface{}{"paper_id": paperID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch paper: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	raw, ok := rows[0]["paper"].(map[string]interface{})
	if !ok {
		return nil, ErrNotFound
	}

	detail := &model.PaperDetail{
		Paper: model.Paper{
			ID:           asString(raw["id"]),
			Title:        asString(raw["title"]),
			Abstract:     asString(raw["abstract"]),
			Keywords:     asStringSlice(raw["keywords"]),
			Status:       asString(raw["status"]),
			Conference:   asString(raw["conference"]),
			ForumLink:    asString(raw["forum_link"]),
			PDFLink:      asString(raw["pdf_link"]),
			CreationDate: asString(raw["creation_date"]),
		},
		PrimaryArea: asString(raw["primary_area"]),
		TLDR:        asString(raw["tldr"]),
		Venue:       asString(raw["venue"]),
	}

	if authors, ok := raw["authors"].([]interface{}); ok {
		detail.Authors, detail.AuthorIDs = decodeAuthors(authors)
	}

	if reviews, ok := raw["reviews"].([]interface{}); ok {
		detail.Reviews = decodeReviews(reviews)
	}
	detail.ReviewCount = len(detail.Reviews)
	detail.AvgRating = averageOfficialRating(detail.Reviews)

	return detail, nil
}

// Stats aggregates corpus-wide counts plus a per-conference status breakdown.
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	rows, err := s.Driver.ExecuteQuery(ctx, driver.StatisticsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch statistics: %w", err)
	}

	stats := map[string]interface{}{
		"total_papers":   int64(0),
		"total_authors":  int64(0),
		"total_reviews":  int64(0),
		"total_keywords": int64(0),
	}
	if len(rows) > 0 {
		for key := range stats {
			stats[key] = asInt64(rows[0][key])
		}
	}

	confRows, err := s.Driver.ExecuteQuery(ctx, driver.ConferenceStatsQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conference statistics: %w", err)
	}

	byConference := map[string]map[string]int64{}
	for _, row := range confRows {
		conf := asString(row["conference"])
		status := asString(row["status"])
		if conf == "" || status == "" {
			continue
		}
		if byConference[conf] == nil {
			byConference[conf] = map[string]int64{}
		}
		byConference[conf][status] = asInt64(row["count"])
	}
	stats["by_conference"] = byConference

	return stats, nil
}

// Reviews fetches the flat review records for one paper, content decoded.
func (s *Store) Reviews(ctx context.Context, paperID string) ([]model.Review, error) {
	rows, err := s.Driver.ExecuteQuery(ctx, driver.GetPaperReviewsQuery,
		map[string]interface{}{"paper_id": paperID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	reviews := make([]model.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, reviewFromMap(row))
	}
	return reviews, nil
}

func paperFromRow(row map[string]interface{}) model.Paper {
	p := model.Paper{
		ID:           asString(row["id"]),
		Title:        asString(row["title"]),
		Status:       asString(row["status"]),
		Conference:   asString(row["conference"]),
		Keywords:     asStringSlice(row["keywords"]),
		Authors:      asStringSlice(row["authors"]),
		ForumLink:    asString(row["forum_link"]),
		PDFLink:      asString(row["pdf_link"]),
		CreationDate: asString(row["creation_date"]),
	}
	if rating, ok := row["avg_rating"].(float64); ok {
		p.AvgRating = &rating
	}
	return p
}

func decodeAuthors(items []interface{}) (names, ids []string) {
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := asString(m["name"])
		if name == "" {
			continue
		}
		names = append(names, name)
		ids = append(ids, asString(m["authorid"]))
	}
	return names, ids
}

func decodeReviews(items []interface{}) []model.Review {
	reviews := make([]model.Review, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		review := reviewFromMap(m)
		if review.ID == "" {
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews
}

func reviewFromMap(m map[string]interface{}) model.Review {
	review := model.Review{
		ID:         asString(m["id"]),
		ReplyTo:    asString(m["replyto"]),
		CDate:      asInt64(m["cdate"]),
		ReviewType: asString(m["review_type"]),
		Content:    model.DecodeContent(asString(m["content_json"])),
	}
	if rating, ok := asFloat(m["rating"]); ok {
		review.Rating = &rating
	}
	if confidence, ok := asFloat(m["confidence"]); ok {
		review.Confidence = &confidence
	}
	return review
}

func averageOfficialRating(reviews []model.Review) *float64 {
	sum := 0.0
	n := 0
	for _, r := range reviews {
		if r.ReviewType == model.TypeOfficialReview && r.Rating != nil {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
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
