// Package interaction derives per-paper discussion metrics from a built
// review forest: word counts by side, round depth, and a normalized
// "battle intensity" score.
package interaction

import (
	"math"
	"strings"

	"github.com/openscholar/papergraph/internal/content"
	"github.com/openscholar/papergraph/internal/model"
	"github.com/openscholar/papergraph/internal/thread"
)

// Config carries the role buckets, saturation caps and factor weights.
// Weights are expected to sum to 1.0.
type Config struct {
	AuthorRoles []string

	WordCap  int
	DepthCap int
	CountCap int

	WordWeight    float64
	DepthWeight   float64
	CountWeight   float64
	BalanceWeight float64
}

// DefaultConfig mirrors the production scoring: author side is rebuttals and
// final remarks, everything else counts as reviewer side.
func DefaultConfig() Config {
	return Config{
		AuthorRoles:   []string{model.TypeRebuttal, "author_final_remarks"},
		WordCap:       10000,
		DepthCap:      5,
		CountCap:      20,
		WordWeight:    0.35,
		DepthWeight:   0.30,
		CountWeight:   0.20,
		BalanceWeight: 0.15,
	}
}

// Summary is the derived interaction profile of one paper's discussion.
// It is a cache: safe to discard and recompute whenever the review set
// changes.
type Summary struct {
	AuthorWordCount   int     `json:"author_word_count"`
	ReviewerWordCount int     `json:"reviewer_word_count"`
	MaxDepth          int     `json:"max_depth"`
	Rounds            int     `json:"interaction_rounds"`
	ReviewCount       int     `json:"review_count"`
	Intensity         float64 `json:"battle_intensity"`
}

// Analyzer computes interaction summaries. It shares the content
// classifier's notion of displayable text so word counts line up with what
// readers actually see.
type Analyzer struct {
	cfg        Config
	classifier *content.Classifier
	authorRole map[string]bool
}

func NewAnalyzer(cfg Config, classifier *content.Classifier) *Analyzer {
	authorRole := make(map[string]bool, len(cfg.AuthorRoles))
	for _, role := range cfg.AuthorRoles {
		authorRole[role] = true
	}
	return &Analyzer{cfg: cfg, classifier: classifier, authorRole: authorRole}
}

// Analyze walks the forest and produces the summary. It is a pure function
// of its input: an empty forest yields the zero summary, and no input can
// make it fail or produce NaN.
func (a *Analyzer) Analyze(forest thread.Forest) Summary {
	s := Summary{}

	thread.Walk(forest, func(n *thread.Node) {
		s.ReviewCount++
		words := countWords(a.classifier.DisplayableText(n.Review))
		if a.authorRole[n.Review.ReviewType] {
			s.AuthorWordCount += words
		} else {
			// Unrecognized roles count as reviewer side.
			s.ReviewerWordCount += words
		}
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
	})

	// A thread of depth N represents N rounds of back-and-forth.
	s.Rounds = s.MaxDepth
	s.Intensity = a.intensity(s)
	return s
}

// intensity combines four independently normalized factors. Zero total words
// short-circuits to 0 so the balance factor never divides by zero.
func (a *Analyzer) intensity(s Summary) float64 {
	total := s.AuthorWordCount + s.ReviewerWordCount
	if total == 0 {
		return 0
	}

	wordFactor := math.Min(1, math.Log(1+float64(total))/math.Log(1+float64(a.cfg.WordCap)))
	depthFactor := math.Min(1, float64(s.MaxDepth)/float64(a.cfg.DepthCap))
	countFactor := math.Min(1, float64(s.ReviewCount)/float64(a.cfg.CountCap))

	diff := float64(s.AuthorWordCount - s.ReviewerWordCount)
	balanceFactor := 1 - math.Abs(diff)/float64(total)

	intensity := a.cfg.WordWeight*wordFactor +
		a.cfg.DepthWeight*depthFactor +
		a.cfg.CountWeight*countFactor +
		a.cfg.BalanceWeight*balanceFactor

	return math.Round(math.Min(1, intensity)*1000) / 1000
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
