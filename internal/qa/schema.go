package qa

// GraphSchema is the fixed schema description given to the translation
// prompt and used to validate generated queries.
const GraphSchema = `
Nodes:
- Paper: id, title, abstract, status (rejected/poster/spotlight/oral/withdrawn), conference (ICLR/ICML/NeurIPS), keywords, creation_date, forum_link, pdf_link
- Author: authorid, name
- Review: id, review_type (official_review/rebuttal/decision/comment), rating, summary, strengths, weaknesses, questions, cdate
- Keyword: name
- Conference: name, year, max_rating

Relationships:
- (Author)-[:AUTHORED]->(Paper) with property: order
- (Paper)-[:HAS_REVIEW]->(Review)
- (Paper)-[:HAS_KEYWORD]->(Keyword)
- (Paper)-[:SUBMITTED_TO]->(Conference)
- (Review)-[:REPLIES_TO]->(Review)

Notes:
- Accepted papers have status IN ['poster', 'spotlight', 'oral']
- ICLR ratings: 1-10, ICML ratings: 1-5 (field: overall_recommendation), NeurIPS ratings: 1-6
- Use avg() for average ratings
- Keywords are lowercase
`

var knownLabels = map[string]bool{
	"Paper":      true,
	"Author":     true,
	"Review":     true,
	"Keyword":    true,
	"Conference": true,
}

var knownRelationships = map[string]bool{
	"AUTHORED":     true,
	"HAS_REVIEW":   true,
	"HAS_KEYWORD":  true,
	"SUBMITTED_TO": true,
	"REPLIES_TO":   true,
}

// Union of the node and relationship properties listed in GraphSchema.
// Validation checks dotted references against this set without resolving
// which label an alias is bound to.
var knownProperties = map[string]bool{
	// Paper
	"id":            true,
	"title":         true,
	"abstract":      true,
	"status":        true,
	"conference":    true,
	"keywords":      true,
	"creation_date": true,
	"forum_link":    true,
	"pdf_link":      true,
	// Author
	"authorid": true,
	"name":     true,
	// Review
	"review_type":            true,
	"rating":                 true,
	"overall_recommendation": true,
	"summary":                true,
	"strengths":              true,
	"weaknesses":             true,
	"questions":              true,
	"cdate":                  true,
	// Conference
	"year":       true,
	"max_rating": true,
	// AUTHORED
	"order": true,
}
