package recommendations

import (
	"sort"
	"strings"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
	"learnpath-backend/internal/learners"
)

// ExtractProfile builds the browse-mode view of a learner: a declared level wins,
// otherwise the level is inferred from completed enrollments. Interests are the
// declared ones followed by the categories and tags of enrolled courses.
func ExtractProfile(p learners.Profile, list []enrollments.Enrollment, enrolled []courses.Course) EffectiveProfile {
	byID := make(map[string]courses.Course, len(enrolled))
	for _, c := range enrolled {
		byID[c.ID] = c
	}

	ep := DeclaredProfile(p)
	if ep.Level == "" {
		ep.Level = InferLevel(completedLevels(list, byID))
		ep.LevelInferred = true
	}

	seen := make(map[string]struct{}, len(ep.Interests))
	for _, in := range ep.Interests {
		seen[in.Key] = struct{}{}
	}
	var inferred []Interest
	add := func(raw string) {
		key := normalize(raw)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		inferred = append(inferred, Interest{Key: key, Label: strings.TrimSpace(raw)})
	}
	for _, c := range sortedByID(enrolled) {
		add(c.Category)
		for _, tag := range c.Tags {
			add(tag)
		}
	}
	sortInterests(inferred)
	ep.Interests = append(ep.Interests, inferred...)
	return ep
}

// DeclaredProfile uses only what the learner declared. Onboarding works from this view.
func DeclaredProfile(p learners.Profile) EffectiveProfile {
	ep := EffectiveProfile{
		LearnerID:   p.ID,
		DisplayName: p.DisplayName,
		Level:       strings.TrimSpace(p.ExperienceLevel),
	}
	seen := make(map[string]struct{}, len(p.Interests))
	for _, raw := range p.Interests {
		key := normalize(raw)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ep.Interests = append(ep.Interests, Interest{Key: key, Label: strings.TrimSpace(raw), Declared: true})
	}
	sortInterests(ep.Interests)

	goalSeen := make(map[string]struct{}, len(p.Goals))
	for _, raw := range p.Goals {
		key := normalize(raw)
		if key == "" {
			continue
		}
		if _, dup := goalSeen[key]; dup {
			continue
		}
		goalSeen[key] = struct{}{}
		ep.Goals = append(ep.Goals, strings.TrimSpace(raw))
	}
	sort.Slice(ep.Goals, func(i, j int) bool { return normalize(ep.Goals[i]) < normalize(ep.Goals[j]) })
	return ep
}

func sortInterests(list []Interest) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Key < list[j].Key })
}

func sortedByID(list []courses.Course) []courses.Course {
	out := append([]courses.Course(nil), list...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
