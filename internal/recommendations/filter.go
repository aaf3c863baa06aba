package recommendations

import (
	"strings"

	"learnpath-backend/internal/courses"
)

// FilterCandidates drops unpublished and enrolled courses and any course whose
// level is not exactly level. In onboarding mode a course must also match at
// least one interest.
func FilterCandidates(catalog []courses.Course, enrolled map[string]struct{}, level string, mode Mode, interests []Interest) []courses.Course {
	out := make([]courses.Course, 0, len(catalog))
	for _, c := range catalog {
		if !c.Published {
			continue
		}
		if _, ok := enrolled[c.ID]; ok {
			continue
		}
		if !courses.SameLevel(c.Level(), level) {
			continue
		}
		if mode == ModeOnboarding && !matchesAnyInterest(c, interests) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesAnyInterest(c courses.Course, interests []Interest) bool {
	category := normalize(c.Category)
	title := normalize(c.Title)
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if n := normalize(t); n != "" {
			tags = append(tags, n)
		}
	}
	for _, in := range interests {
		if containsEither(category, in.Key) || containsEither(title, in.Key) {
			return true
		}
		for _, tag := range tags {
			if containsEither(tag, in.Key) {
				return true
			}
		}
	}
	return false
}

// containsEither reports whether either non-empty string contains the other.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func enrolledSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
