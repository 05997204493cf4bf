package model

// Author is the search/listing view of an author node.
type Author struct {
	AuthorID   string `json:"authorid"`
	Name       string `json:"name"`
	PaperCount int64  `json:"paper_count"`
}

// AuthorRanking adds acceptance stats for the top-authors leaderboard.
type AuthorRanking struct {
	Author
	AcceptedCount  int64   `json:"accepted_count"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// AuthorPaper is the compact paper reference on an author's detail page.
type AuthorPaper struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Conference string `json:"conference"`
}

// Collaborator is one co-author with the number of shared papers.
type Collaborator struct {
	AuthorID           string   `json:"authorid"`
	Name               string   `json:"name"`
	CollaborationCount int64    `json:"collaboration_count"`
	PaperIDs           []string `json:"paper_ids,omitempty"`
}

// AuthorDetail is the full author page: papers, top collaborators and
// per-conference counts. AcceptRate is a percentage.
type AuthorDetail struct {
	AuthorID      string         `json:"authorid"`
	Name          string         `json:"name"`
	PaperCount    int            `json:"paper_count"`
	Papers        []AuthorPaper  `json:"papers"`
	Collaborators []Collaborator `json:"collaborators"`
	Conferences   map[string]int `json:"conferences"`
	AcceptRate    float64        `json:"accept_rate"`
}
