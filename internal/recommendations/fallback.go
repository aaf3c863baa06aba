package recommendations

import (
	"sort"

	"learnpath-backend/internal/courses"
)

const popularReason = "Popular course among learners"

// PopularFallback lists the most popular published courses the learner is not
// enrolled in. Level is deliberately ignored.
func PopularFallback(catalog []courses.Course, enrolled map[string]struct{}, limit int) []ScoredCandidate {
	pool := make([]courses.Course, 0, len(catalog))
	for _, c := range catalog {
		if !c.Published {
			continue
		}
		if _, ok := enrolled[c.ID]; ok {
			continue
		}
		pool = append(pool, c)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.StudentCount != b.StudentCount {
			return a.StudentCount > b.StudentCount
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}

	out := make([]ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		out = append(out, ScoredCandidate{
			Course:         c,
			RelevanceScore: fallbackRelevanceScore,
			Reasons:        []string{popularReason},
		})
	}
	return out
}
