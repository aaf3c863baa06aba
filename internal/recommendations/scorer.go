package recommendations

import (
	"strings"

	"learnpath-backend/internal/courses"
)

const (
	pointsCategoryExact     = 50
	pointsCategoryPartial   = 40
	pointsTitleMatch        = 35
	pointsTagExact          = 25
	pointsTagPartial        = 20
	minInterestMatchToPass  = 20
	fallbackRelevanceScore  = 50
	defaultOnboardingLimit  = 8
	defaultFallbackLimit    = 10
	ratingHighThreshold     = 4.5
	ratingGoodThreshold     = 4.0
	studentsHighThreshold   = 1000
	studentsMediumThreshold = 500
)

type weights struct {
	levelExact   int
	levelAbove   int
	levelBelow   int
	levelFlat    int
	ratingHigh   int
	ratingGood   int
	studentsHigh int
	studentsMid  int
	progression  int
	trending     int
	featured     int
	goal         int
}

var browseWeights = weights{
	levelExact:   25,
	levelAbove:   15,
	levelBelow:   10,
	ratingHigh:   10,
	ratingGood:   5,
	studentsHigh: 10,
	studentsMid:  5,
	progression:  20,
	trending:     8,
	featured:     5,
}

var onboardingWeights = weights{
	levelFlat:    30,
	ratingHigh:   15,
	ratingGood:   10,
	studentsHigh: 15,
	studentsMid:  10,
	trending:     10,
	featured:     10,
	goal:         15,
}

func weightsFor(mode Mode) weights {
	if mode == ModeOnboarding {
		return onboardingWeights
	}
	return browseWeights
}

// ScoreCandidate sums the weighted signals for one course. Interest, category,
// title and tag points are also reported as InterestMatchScore for gating.
func ScoreCandidate(c courses.Course, ep EffectiveProfile, mode Mode, enrolled []courses.Course) ScoredCandidate {
	w := weightsFor(mode)
	sc := ScoredCandidate{Course: c}

	sc.InterestMatchScore = interestPoints(c, ep.Interests, &sc.fired)
	score := sc.InterestMatchScore

	if mode == ModeOnboarding {
		score += w.levelFlat
		sc.fired.levelFit = true
	} else if pts, delta, ok := levelFit(c.Level(), ep.Level, w); ok {
		score += pts
		sc.fired.levelFit = true
		sc.fired.levelDelta = delta
	}

	switch {
	case c.Rating >= ratingHighThreshold:
		score += w.ratingHigh
		sc.fired.rating = true
	case c.Rating >= ratingGoodThreshold:
		score += w.ratingGood
		sc.fired.rating = true
	}

	switch {
	case c.StudentCount > studentsHighThreshold:
		score += w.studentsHigh
		sc.fired.popularity = true
	case c.StudentCount > studentsMediumThreshold:
		score += w.studentsMid
		sc.fired.popularity = true
	}

	if mode == ModeBrowse {
		if prev, ok := progressionFrom(c, enrolled); ok {
			score += w.progression
			sc.fired.progression = prev.Title
		}
	}

	if c.Trending {
		score += w.trending
		sc.fired.trending = true
	}
	if c.Featured {
		score += w.featured
		sc.fired.featured = true
	}

	if mode == ModeOnboarding {
		title := normalize(c.Title)
		desc := normalize(c.Description)
		for _, goal := range ep.Goals {
			g := normalize(goal)
			if g == "" {
				continue
			}
			if strings.Contains(title, g) || strings.Contains(desc, g) {
				score += w.goal
				if sc.fired.goal == "" {
					sc.fired.goal = goal
				}
			}
		}
	}

	sc.RelevanceScore = score
	return sc
}

// interestPoints scores every interest independently and records the first
// interest, in priority order, that matched anything.
func interestPoints(c courses.Course, interests []Interest, fired *signals) int {
	category := normalize(c.Category)
	title := normalize(c.Title)
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if n := normalize(t); n != "" {
			tags = append(tags, n)
		}
	}

	total := 0
	for _, in := range interests {
		pts := 0
		switch {
		case category != "" && category == in.Key:
			pts += pointsCategoryExact
		case containsEither(category, in.Key):
			pts += pointsCategoryPartial
		}
		if title != "" && strings.Contains(title, in.Key) {
			pts += pointsTitleMatch
		}
		for _, tag := range tags {
			switch {
			case tag == in.Key:
				pts += pointsTagExact
			case containsEither(tag, in.Key):
				pts += pointsTagPartial
			}
		}
		if pts > 0 && fired.interest == "" {
			fired.interest = in.Label
		}
		total += pts
	}
	return total
}

// levelFit scores how a course tier sits relative to the learner tier. delta is
// course tier minus learner tier.
func levelFit(courseLevel, learnerLevel string, w weights) (int, int, bool) {
	if courses.SameLevel(courseLevel, learnerLevel) {
		return w.levelExact, 0, true
	}
	cr, lr := courses.LevelRank(courseLevel), courses.LevelRank(learnerLevel)
	if cr < 0 || lr < 0 {
		return 0, 0, false
	}
	switch cr - lr {
	case 1:
		return w.levelAbove, 1, true
	case -1:
		return w.levelBelow, -1, true
	default:
		return 0, 0, false
	}
}

// progressionFrom finds an enrolled course in the same category exactly one tier below c.
func progressionFrom(c courses.Course, enrolled []courses.Course) (courses.Course, bool) {
	category := normalize(c.Category)
	rank := courses.LevelRank(c.Level())
	if category == "" || rank <= 0 {
		return courses.Course{}, false
	}
	for _, prev := range sortedByID(enrolled) {
		if normalize(prev.Category) != category {
			continue
		}
		if courses.LevelRank(prev.Level()) == rank-1 {
			return prev, true
		}
	}
	return courses.Course{}, false
}
