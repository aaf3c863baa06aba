package recommendations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
)

func TestInterestPointsPerSignal(t *testing.T) {
	cases := []struct {
		name     string
		course   courses.Course
		interest string
		want     int
	}{
		{name: "category exact", course: courses.Course{Category: "Data Science"}, interest: "data science", want: 50},
		{name: "category contains interest", course: courses.Course{Category: "Data Science"}, interest: "data", want: 40},
		{name: "interest contains category", course: courses.Course{Category: "Go"}, interest: "go concurrency", want: 40},
		{name: "title contains", course: courses.Course{Title: "SQL Basics"}, interest: "sql", want: 35},
		{name: "tag exact and partial", course: courses.Course{Tags: []string{"Python", "python-basics", "data"}}, interest: "python", want: 45},
		{name: "everything", course: courses.Course{Category: "SQL", Title: "SQL for analysts", Tags: []string{"sql"}}, interest: "sql", want: 50 + 35 + 25},
		{name: "no match", course: courses.Course{Category: "Design", Title: "Figma"}, interest: "rust", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fired signals
			got := interestPoints(tc.course, []Interest{{Key: normalize(tc.interest), Label: tc.interest}}, &fired)
			assert.Equal(t, tc.want, got)
			if tc.want > 0 {
				assert.Equal(t, tc.interest, fired.interest)
			} else {
				assert.Empty(t, fired.interest)
			}
		})
	}
}

func TestInterestPointsAreAdditiveAcrossInterests(t *testing.T) {
	c := courses.Course{Category: "Data Science", Title: "Python for Data Science", Tags: []string{"python"}}
	interests := []Interest{
		{Key: "data", Label: "Data"},
		{Key: "python", Label: "Python"},
	}
	var fired signals
	got := interestPoints(c, interests, &fired)
	// data: category partial 40 + title 35; python: title 35 + tag exact 25
	assert.Equal(t, 40+35+35+25, got)
	assert.Equal(t, "Data", fired.interest)
}

func TestLevelFit(t *testing.T) {
	cases := []struct {
		course, learner string
		pts, delta      int
		ok              bool
	}{
		{"Intermediate", "intermediate", 25, 0, true},
		{"Advanced", "Intermediate", 15, 1, true},
		{"Beginner", "Intermediate", 10, -1, true},
		{"Expert", "Beginner", 0, 0, false},
		{"Beginner", "guru", 0, 0, false},
	}
	for _, tc := range cases {
		pts, delta, ok := levelFit(tc.course, tc.learner, browseWeights)
		assert.Equal(t, tc.pts, pts, "%s vs %s", tc.course, tc.learner)
		assert.Equal(t, tc.delta, delta, "%s vs %s", tc.course, tc.learner)
		assert.Equal(t, tc.ok, ok, "%s vs %s", tc.course, tc.learner)
	}
}

func TestScoreCandidateBrowseBonuses(t *testing.T) {
	ep := EffectiveProfile{Level: "Beginner"}
	cases := []struct {
		name string
		c    courses.Course
		want int
	}{
		{name: "level only", c: course("c", "X", "Beginner", 3.9, 500), want: 25},
		{name: "good rating, mid popularity", c: course("c", "X", "Beginner", 4.0, 501), want: 25 + 5 + 5},
		{name: "high rating, high popularity", c: course("c", "X", "Beginner", 4.5, 1001), want: 25 + 10 + 10},
		{name: "trending and featured", c: func() courses.Course {
			c := course("c", "X", "Beginner", 0, 0)
			c.Trending, c.Featured = true, true
			return c
		}(), want: 25 + 8 + 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScoreCandidate(tc.c, ep, ModeBrowse, nil).RelevanceScore)
		})
	}
}

func TestScoreCandidateOnboardingBonuses(t *testing.T) {
	c := course("c1", "Analytics", "Beginner", 4.0, 600)
	c.Description = "Build dashboards with SQL"
	c.Trending = true
	c.Featured = true
	ep := EffectiveProfile{
		Level:     "Beginner",
		Interests: []Interest{{Key: "analytics", Label: "Analytics", Declared: true}},
		Goals:     []string{"dashboards", "SQL", "promotion"},
	}

	sc := ScoreCandidate(c, ep, ModeOnboarding, nil)
	assert.Equal(t, 50, sc.InterestMatchScore)
	assert.Equal(t, 50+30+10+10+10+10+15+15, sc.RelevanceScore)

	reasons := buildReasons(sc, ep.Level)
	assert.Equal(t, []string{
		"Matches your interest in Analytics",
		"Matches your Beginner level",
		"Highly rated (4.0/5)",
		"Popular with 600 learners",
		"Trending now",
		"Supports your goal: dashboards",
		"Featured course",
	}, reasons)
}

func TestScoreCandidateOnboardingIgnoresProgression(t *testing.T) {
	prev := course("prev", "Data", "Beginner", 0, 0)
	next := course("next", "Data", "Intermediate", 0, 0)
	sc := ScoreCandidate(next, EffectiveProfile{Level: "Intermediate"}, ModeOnboarding, []courses.Course{prev})
	assert.Equal(t, 30, sc.RelevanceScore)
	assert.Empty(t, sc.fired.progression)
}

func TestProgressionBonusOnce(t *testing.T) {
	prev := course("prev", "Data Science", "", 0, 0)
	prev.Title = "Intro to Data"
	other := course("other", "data science", "Beginner", 0, 0)
	other.Title = "Stats Primer"
	next := course("next", "Data Science", "Intermediate", 0, 0)

	sc := ScoreCandidate(next, EffectiveProfile{Level: "Intermediate"}, ModeBrowse, []courses.Course{prev, other})
	assert.Equal(t, 25+20, sc.RelevanceScore)
	assert.Equal(t, []string{
		"Matches your Intermediate level",
		"Next step after Stats Primer",
	}, buildReasons(sc, "Intermediate"))
}

func TestProgressionRequiresExactlyOneTierBelow(t *testing.T) {
	prev := course("prev", "Data", "Beginner", 0, 0)
	next := course("next", "Data", "Advanced", 0, 0)
	sc := ScoreCandidate(next, EffectiveProfile{Level: "Advanced"}, ModeBrowse, []courses.Course{prev})
	assert.Equal(t, 25, sc.RelevanceScore)
}

func TestAdjacentLevelReasons(t *testing.T) {
	up := ScoreCandidate(course("up", "X", "Advanced", 0, 0), EffectiveProfile{Level: "Intermediate"}, ModeBrowse, nil)
	assert.Equal(t, 15, up.RelevanceScore)
	assert.Equal(t, []string{"A step up from your Intermediate level"}, buildReasons(up, "Intermediate"))

	down := ScoreCandidate(course("down", "X", "Beginner", 0, 0), EffectiveProfile{Level: "intermediate"}, ModeBrowse, nil)
	assert.Equal(t, 10, down.RelevanceScore)
	assert.Equal(t, []string{"Revisits Beginner fundamentals"}, buildReasons(down, "intermediate"))
}

func TestGenericReasonWhenNothingFired(t *testing.T) {
	assert.Equal(t, []string{genericReason}, buildReasons(ScoredCandidate{Course: course("c", "X", "Beginner", 0, 0)}, "Beginner"))
}

func TestInterestReasonUsesDeclaredBeforeInferred(t *testing.T) {
	enrolled := course("e1", "Analytics", "Beginner", 0, 0)
	enrolled.Tags = []string{"SQL", "Python"}
	ep := ExtractProfile(learner("l1", "Beginner", "Python", " data ", "python"), nil, []courses.Course{enrolled})

	require.Equal(t, []string{"data", "Python", "Analytics", "SQL"}, interestLabels(ep.Interests))
	assert.True(t, ep.Interests[0].Declared)
	assert.False(t, ep.Interests[2].Declared)

	c := course("c1", "Analytics", "Beginner", 0, 0)
	c.Title = "Python Analytics"
	sc := ScoreCandidate(c, ep, ModeBrowse, nil)
	assert.Equal(t, "Python", sc.fired.interest)
}

func TestInferLevel(t *testing.T) {
	cases := []struct {
		completed []string
		want      string
	}{
		{nil, "Beginner"},
		{[]string{"Beginner", "beginner"}, "Beginner"},
		{[]string{"Intermediate"}, "Intermediate"},
		{[]string{"Intermediate", "intermediate"}, "Intermediate"},
		{[]string{"Advanced"}, "Intermediate"},
		{[]string{"Advanced", "Advanced"}, "Advanced"},
		{[]string{"Expert"}, "Advanced"},
		{[]string{"Beginner", "Expert", "Advanced"}, "Advanced"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InferLevel(tc.completed), "%v", tc.completed)
	}
}

func TestExtractProfileLevel(t *testing.T) {
	adv := course("adv", "Data", "Advanced", 0, 0)
	exp := course("exp", "Data", "Expert", 0, 0)
	list := []enrollments.Enrollment{
		{LearnerID: "l1", CourseID: "adv", Completed: true},
		{LearnerID: "l1", CourseID: "exp", Completed: false},
	}

	inferred := ExtractProfile(learner("l1", ""), list, []courses.Course{adv, exp})
	assert.Equal(t, "Intermediate", inferred.Level)
	assert.True(t, inferred.LevelInferred)

	declared := ExtractProfile(learner("l1", "advanced"), list, []courses.Course{adv, exp})
	assert.Equal(t, "advanced", declared.Level)
	assert.False(t, declared.LevelInferred)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "1,200", formatCount(1200))
	assert.Equal(t, "1,000,000", formatCount(1000000))
	assert.Equal(t, "-12,345", formatCount(-12345))
}

func TestRankAppliesGateOnlyInBrowse(t *testing.T) {
	ep := EffectiveProfile{Level: "Beginner", Interests: []Interest{{Key: "data", Label: "data"}}}
	weak := ScoredCandidate{Course: course("weak", "X", "Beginner", 0, 0), RelevanceScore: 60, InterestMatchScore: 19}
	zero := ScoredCandidate{Course: course("zero", "X", "Beginner", 0, 0)}

	assert.Empty(t, Rank([]ScoredCandidate{weak, zero}, ep, ModeBrowse, 0))
	onboarding := Rank([]ScoredCandidate{weak, zero}, ep, ModeOnboarding, 0)
	require.Len(t, onboarding, 1)
	assert.Equal(t, "weak", onboarding[0].Course.ID)
}
