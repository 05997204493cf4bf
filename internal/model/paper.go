package model

// Paper is the listing view of a paper node.
type Paper struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Abstract     string   `json:"abstract,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Status       string   `json:"status"`
	Conference   string   `json:"conference"`
	Authors      []string `json:"authors,omitempty"`
	ForumLink    string   `json:"forum_link,omitempty"`
	PDFLink      string   `json:"pdf_link,omitempty"`
	CreationDate string   `json:"creation_date,omitempty"`
	AvgRating    *float64 `json:"avg_rating,omitempty"`
}

// PaperDetail adds reviews and the derived interaction attributes. The
// interaction fields are recomputed from the review set on demand; they are a
// cache, not source data.
type PaperDetail struct {
	Paper
	AuthorIDs   []string `json:"authorids,omitempty"`
	PrimaryArea string   `json:"primary_area,omitempty"`
	TLDR        string   `json:"tldr,omitempty"`
	Venue       string   `json:"venue,omitempty"`
	ReviewCount int      `json:"review_count"`
	Reviews     []Review `json:"reviews"`

	AuthorWordCount   int     `json:"author_word_count"`
	ReviewerWordCount int     `json:"reviewer_word_count"`
	InteractionRounds int     `json:"interaction_rounds"`
	BattleIntensity   float64 `json:"battle_intensity"`
}

// PaperList is a paginated listing response.
type PaperList struct {
	Papers   []Paper `json:"papers"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
