// Package content decides which fields of a review's open-ended content
// mapping are worth showing, and in what order.
package content

import (
	"sort"
	"strings"

	"github.com/openscholar/papergraph/internal/model"
	"github.com/openscholar/papergraph/internal/thread"
)

// Style categories consumed by presentation code.
const (
	StyleDecision   = "decision"
	StylePositive   = "positive"
	StyleNegative   = "negative"
	StyleQuestion   = "question"
	StyleScore      = "score"
	StyleCommentary = "commentary"
	StyleNeutral    = "neutral"
)

// FieldSpec configures one known content field.
type FieldSpec struct {
	Label    string
	Priority int
	Style    string
}

// Config holds the skip-set and field table. Components receive it
// explicitly so alternate tables can be tested; DefaultConfig matches the
// review forms of the ingested conferences.
type Config struct {
	Skip            map[string]bool
	Fields          map[string]FieldSpec
	DefaultPriority int
}

// DefaultConfig returns the built-in skip-set and field table.
func DefaultConfig() Config {
	return Config{
		Skip: setOf(
			"title",
			"venue",
			"venueid",
			"paperhash",
			"_bibtex",
			"pdf",
			"supplementary_material",
			"code_of_conduct",
			"reviewer_confirmation",
			"acknowledgement",
			"consent",
			"declaration",
		),
		Fields: map[string]FieldSpec{
			"decision":                   {Label: "Decision", Priority: 1, Style: StyleDecision},
			"metareview":                 {Label: "Meta Review", Priority: 2, Style: StyleDecision},
			"meta_review":                {Label: "Meta Review", Priority: 2, Style: StyleDecision},
			"recommendation":             {Label: "Recommendation", Priority: 3, Style: StyleDecision},
			"summary":                    {Label: "Summary", Priority: 10, Style: StyleNeutral},
			"summary_of_the_paper":       {Label: "Summary", Priority: 10, Style: StyleNeutral},
			"strengths":                  {Label: "Strengths", Priority: 20, Style: StylePositive},
			"strengths_and_weaknesses":   {Label: "Strengths And Weaknesses", Priority: 21, Style: StyleNeutral},
			"weaknesses":                 {Label: "Weaknesses", Priority: 30, Style: StyleNegative},
			"questions":                  {Label: "Questions", Priority: 40, Style: StyleQuestion},
			"limitations":                {Label: "Limitations", Priority: 45, Style: StyleNegative},
			"rating":                     {Label: "Rating", Priority: 50, Style: StyleScore},
			"overall_recommendation":     {Label: "Overall Recommendation", Priority: 51, Style: StyleScore},
			"soundness":                  {Label: "Soundness", Priority: 52, Style: StyleScore},
			"presentation":               {Label: "Presentation", Priority: 53, Style: StyleScore},
			"contribution":               {Label: "Contribution", Priority: 54, Style: StyleScore},
			"confidence":                 {Label: "Confidence", Priority: 55, Style: StyleScore},
			"comment":                    {Label: "Comment", Priority: 60, Style: StyleCommentary},
			"rebuttal":                   {Label: "Rebuttal", Priority: 60, Style: StyleCommentary},
			"justification":              {Label: "Justification", Priority: 65, Style: StyleCommentary},
			"flag_for_ethics_review":     {Label: "Ethics Review Flag", Priority: 80, Style: StyleNeutral},
			"details_of_ethics_concerns": {Label: "Ethics Concerns", Priority: 81, Style: StyleNeutral},
		},
		DefaultPriority: 70,
	}
}

// ClassifiedField is one displayable entry of a review's content mapping.
type ClassifiedField struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Priority int    `json:"priority"`
	Style    string `json:"style"`
}

// Classifier turns raw review content into an ordered display list.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify filters and orders the review's content fields: skip-listed keys
// and empty values are dropped, the rest get a label, priority and style from
// the field table (or a title-cased fallback) and come back sorted by
// priority ascending, key breaking ties.
func (c *Classifier) Classify(r model.Review) []ClassifiedField {
	var fields []ClassifiedField

	for key, value := range r.Content {
		if c.cfg.Skip[key] {
			continue
		}
		display := strings.TrimSpace(value.Display())
		if display == "" {
			continue
		}

		spec, ok := c.cfg.Fields[key]
		if !ok {
			spec = FieldSpec{
				Label:    titleCase(key),
				Priority: c.cfg.DefaultPriority,
				Style:    StyleNeutral,
			}
		}

		fields = append(fields, ClassifiedField{
			Key:      key,
			Value:    display,
			Label:    spec.Label,
			Priority: spec.Priority,
			Style:    spec.Style,
		})
	}

	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Priority != fields[j].Priority {
			return fields[i].Priority < fields[j].Priority
		}
		return fields[i].Key < fields[j].Key
	})

	return fields
}

// HasDisplayable reports whether Classify would return anything for this
// review.
func (c *Classifier) HasDisplayable(r model.Review) bool {
	for key, value := range r.Content {
		if c.cfg.Skip[key] {
			continue
		}
		if strings.TrimSpace(value.Display()) != "" {
			return true
		}
	}
	return false
}

// DisplayableText joins the textual values the classifier would display,
// skip-set and emptiness rules included. Numeric and boolean fields are left
// out; word counting over them would only add noise.
func (c *Classifier) DisplayableText(r model.Review) string {
	var parts []string
	for key, value := range r.Content {
		if c.cfg.Skip[key] {
			continue
		}
		if value.Kind != model.KindString && value.Kind != model.KindList {
			continue
		}
		text := strings.TrimSpace(value.Display())
		if text != "" {
			parts = append(parts, text)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// WorthSurfacing reports whether a discussion node or any of its descendants
// has displayable content. Consumers use it to prune empty branches. The
// traversal is post-order over an explicit stack with per-node memoization,
// so repeated calls on shared subtrees stay cheap and deep chains cannot
// overflow the stack.
func (c *Classifier) WorthSurfacing(node *thread.Node) bool {
	if node == nil {
		return false
	}
	memo := make(map[*thread.Node]bool)
	c.worthSurfacing(node, memo)
	return memo[node]
}

// PruneForest drops root threads with no displayable content anywhere in
// them, sharing one memo table across the forest.
func (c *Classifier) PruneForest(forest thread.Forest) thread.Forest {
	memo := make(map[*thread.Node]bool)
	kept := make(thread.Forest, 0, len(forest))
	for _, root := range forest {
		c.worthSurfacing(root, memo)
		if memo[root] {
			kept = append(kept, root)
		}
	}
	return kept
}

func (c *Classifier) worthSurfacing(node *thread.Node, memo map[*thread.Node]bool) {
	type frame struct {
		node     *thread.Node
		expanded bool
	}
	stack := []frame{{node: node}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.expanded {
			top.expanded = true
			for _, child := range top.node.Children {
				if _, done := memo[child]; !done {
					stack = append(stack, frame{node: child})
				}
			}
			continue
		}

		stack = stack[:len(stack)-1]
		if _, done := memo[top.node]; done {
			continue
		}
		result := c.HasDisplayable(top.node.Review)
		if !result {
			for _, child := range top.node.Children {
				if memo[child] {
					result = true
					break
				}
			}
		}
		memo[top.node] = result
	}
}

func setOf(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// titleCase renders an unconfigured snake_case key as a readable label.
func titleCase(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
