package search

import (
	"math"
	"sort"

	"github.com/openscholar/papergraph/internal/model"
)

// fuseRRF merges the two ranked lists with reciprocal-rank fusion: each
// candidate scores the sum of 1/(k + rank) over every list it appears in,
// ranks counted from 1. A candidate in only one list keeps its partial
// score. Ties break on lexical score, then id, so output is deterministic.
func fuseRRF(lexical, semantic []model.RetrievalHit, k, limit int) []model.RetrievalHit {
	fused := make(map[string]*model.RetrievalHit)

	merge := func(list []model.RetrievalHit, semanticList bool) {
		for rank, hit := range list {
			entry, ok := fused[hit.PaperID]
			if !ok {
				copied := hit
				fused[hit.PaperID] = &copied
				entry = &copied
			}
			entry.Score += 1 / float64(k+rank+1)
			if semanticList {
				entry.SemScore = hit.SemScore
			} else {
				entry.LexScore = hit.LexScore
			}
		}
	}

	merge(lexical, false)
	merge(semantic, true)

	hits := make([]model.RetrievalHit, 0, len(fused))
	for _, entry := range fused {
		hits = append(hits, *entry)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].LexScore != hits[j].LexScore {
			return hits[i].LexScore > hits[j].LexScore
		}
		return hits[i].PaperID < hits[j].PaperID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func sortByScore(hits []model.RetrievalHit, score func(model.RetrievalHit) float64) {
	sort.Slice(hits, func(i, j int) bool {
		si, sj := score(hits[i]), score(hits[j])
		if si != sj {
			return si > sj
		}
		return hits[i].PaperID < hits[j].PaperID
	})
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asFloat32Slice(v interface{}) []float32 {
	switch list := v.(type) {
	case []float32:
		return list
	case []float64:
		out := make([]float32, len(list))
		for i, f := range list {
			out[i] = float32(f)
		}
		return out
	case []interface{}:
		out := make([]float32, 0, len(list))
		for _, item := range list {
			switch f := item.(type) {
			case float64:
				out = append(out, float32(f))
			case float32:
				out = append(out, f)
			}
		}
		return out
	default:
		return nil
	}
}
