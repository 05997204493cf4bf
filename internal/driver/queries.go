package driver

const (
	GetPaperByIDQuery = `
		MATCH (p:Paper {id: $paper_id})
		OPTIONAL MATCH (p)<-[au:AUTHORED]-(a:Author)
		WITH p, collect({name: a.name, authorid: a.authorid, order: au.order}) AS authors
		OPTIONAL MATCH (p)-[:HAS_REVIEW]->(r:Review)
		WITH p, authors, collect(r {.id, .replyto, .cdate, .review_type, .rating, .confidence, .content_json}) AS reviews
		OPTIONAL MATCH (p)-[:HAS_KEYWORD]->(k:Keyword)
		RETURN p {.*, authors: authors, reviews: reviews, keywords: collect(k.name)} AS paper
	`

	GetPaperReviewsQuery = `
		MATCH (p:Paper {id: $paper_id})-[:HAS_REVIEW]->(r:Review)
		RETURN r.id AS id, r.replyto AS replyto, r.cdate AS cdate,
		       r.review_type AS review_type, r.rating AS rating,
		       r.confidence AS confidence, r.content_json AS content_json
	`

	LexicalSearchQuery = `
		MATCH (p:Paper)
		OPTIONAL MATCH (p)<-[:AUTHORED]-(a:Author)
		WITH p, collect(a.name) AS authors
		WHERE toLower(p.title) CONTAINS $query
		   OR any(name IN authors WHERE toLower(name) CONTAINS $query)
		   OR any(kw IN p.keywords WHERE toLower(kw) CONTAINS $query)
		RETURN p.id AS id, p.title AS title, p.status AS status,
		       p.conference AS conference, p.keywords AS keywords, authors
		LIMIT $limit
	`

	AbstractEmbeddingsQuery = `
		MATCH (p:Paper)
		WHERE p.abstract_embedding IS NOT NULL
		OPTIONAL MATCH (p)<-[:AUTHORED]-(a:Author)
		RETURN p.id AS id, p.title AS title, p.status AS status,
		       p.conference AS conference, collect(a.name) AS authors,
		       p.abstract_embedding AS embedding
	`

	SearchAuthorsQuery = `
		MATCH (a:Author)
		WHERE toLower(a.name) CONTAINS $search
		OPTIONAL MATCH (a)-[:AUTHORED]->(p:Paper)
		WITH a, count(p) AS paper_count
		RETURN a.authorid AS authorid, a.name AS name, paper_count
		ORDER BY paper_count DESC
		LIMIT $limit
	`

	GetAuthorByIDQuery = `
		MATCH (a:Author {authorid: $authorid})
		OPTIONAL MATCH (a)-[:AUTHORED]->(p:Paper)
		WITH a, collect(p {.id, .title, .status, .conference}) AS papers
		OPTIONAL MATCH (a)-[:AUTHORED]->(p2:Paper)<-[:AUTHORED]-(collab:Author)
		WHERE collab.authorid <> a.authorid
		WITH a, papers, collab, count(DISTINCT p2) AS collab_count
		ORDER BY collab_count DESC
		WITH a, papers, collect({authorid: collab.authorid, name: collab.name, count: collab_count})[..10] AS collaborators
		RETURN a {.*, papers: papers, collaborators: collaborators} AS author
	`

	AuthorCollaboratorsQuery = `
		MATCH (a:Author {authorid: $authorid})-[:AUTHORED]->(p:Paper)<-[:AUTHORED]-(collab:Author)
		WHERE collab.authorid <> $authorid
		WITH collab, collect(DISTINCT p.id) AS paper_ids, count(DISTINCT p) AS collaboration_count
		RETURN collab.authorid AS authorid, collab.name AS name,
		       collaboration_count, paper_ids
		ORDER BY collaboration_count DESC
		LIMIT $limit
	`

	AuthorExistsQuery = `
		MATCH (a:Author {authorid: $authorid})
		RETURN a.authorid AS authorid
	`

	StatisticsQuery = `
		MATCH (p:Paper)
		WITH count(p) AS total_papers
		MATCH (a:Author)
		WITH total_papers, count(a) AS total_authors
		MATCH (r:Review)
		WITH total_papers, total_authors, count(r) AS total_reviews
		MATCH (k:Keyword)
		RETURN total_papers, total_authors, total_reviews, count(k) AS total_keywords
	`

	ConferenceStatsQuery = `
		MATCH (p:Paper)
		WITH p.conference AS conference, p.status AS status, count(*) AS count
		RETURN conference, status, count
		ORDER BY conference, status
	`
)
