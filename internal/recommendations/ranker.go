package recommendations

import (
	"fmt"
	"sort"
	"strconv"
)

const genericReason = "Recommended based on your learning profile"

// Rank gates, orders and truncates scored candidates and attaches reasons.
// A limit of zero or less keeps every survivor.
func Rank(cands []ScoredCandidate, ep EffectiveProfile, mode Mode, limit int) []ScoredCandidate {
	gate := mode == ModeBrowse && len(ep.Interests) > 0
	out := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		if gate && c.InterestMatchScore < minInterestMatchToPass {
			continue
		}
		if c.RelevanceScore <= 0 {
			continue
		}
		out = append(out, c)
	}

	sortCandidates(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Reasons = buildReasons(out[i], ep.Level)
	}
	return out
}

// sortCandidates orders by score desc, then rating desc, then course ID asc.
func sortCandidates(list []ScoredCandidate) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.Course.Rating != b.Course.Rating {
			return a.Course.Rating > b.Course.Rating
		}
		return a.Course.ID < b.Course.ID
	})
}

func buildReasons(c ScoredCandidate, learnerLevel string) []string {
	s := c.fired
	var out []string
	if s.interest != "" {
		out = append(out, "Matches your interest in "+s.interest)
	}
	if s.levelFit {
		switch s.levelDelta {
		case 1:
			out = append(out, fmt.Sprintf("A step up from your %s level", displayLevel(learnerLevel)))
		case -1:
			out = append(out, fmt.Sprintf("Revisits %s fundamentals", displayLevel(c.Course.Level())))
		default:
			out = append(out, fmt.Sprintf("Matches your %s level", displayLevel(learnerLevel)))
		}
	}
	if s.rating {
		out = append(out, fmt.Sprintf("Highly rated (%.1f/5)", c.Course.Rating))
	}
	if s.popularity {
		out = append(out, fmt.Sprintf("Popular with %s learners", formatCount(c.Course.StudentCount)))
	}
	if s.trending {
		out = append(out, "Trending now")
	}
	if s.progression != "" {
		out = append(out, "Next step after "+s.progression)
	}
	if s.goal != "" {
		out = append(out, "Supports your goal: "+s.goal)
	}
	if s.featured {
		out = append(out, "Featured course")
	}
	if len(out) == 0 {
		return []string{genericReason}
	}
	return out
}

// formatCount renders n with comma thousands separators.
func formatCount(n int) string {
	raw := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		raw = raw[1:]
	}
	var b []byte
	for i := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b = append(b, ',')
		}
		b = append(b, raw[i])
	}
	if neg {
		return "-" + string(b)
	}
	return string(b)
}
