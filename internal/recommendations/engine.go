package recommendations

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
	"learnpath-backend/internal/shared/telemetry"
)

// ScoreFunc scores one candidate. Engine uses ScoreCandidate unless overridden.
type ScoreFunc func(c courses.Course, ep EffectiveProfile, mode Mode, enrolled []courses.Course) ScoredCandidate

// Engine runs the filter, score and rank pipeline over a Snapshot. It holds no
// state between calls and is safe for concurrent use.
type Engine struct {
	OnboardingLimit int
	FallbackLimit   int
	Score           ScoreFunc
	Now             func() time.Time
}

func (e Engine) onboardingLimit() int {
	if e.OnboardingLimit > 0 {
		return e.OnboardingLimit
	}
	return defaultOnboardingLimit
}

func (e Engine) fallbackLimit() int {
	if e.FallbackLimit > 0 {
		return e.FallbackLimit
	}
	return defaultFallbackLimit
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}

func (e Engine) score() ScoreFunc {
	if e.Score != nil {
		return e.Score
	}
	return ScoreCandidate
}

// Browse ranks every qualifying course at the learner's effective level, or
// falls back to the popularity list when nothing qualifies.
func (e Engine) Browse(snap Snapshot) Result {
	ep := ExtractProfile(snap.Profile, snap.Enrollments, snap.Enrolled)
	enrolled := enrolledSet(enrollments.CourseIDs(snap.Enrollments))
	res := Result{
		Mode:           ModeBrowse,
		EffectiveLevel: ep.Level,
		Interests:      interestLabels(ep.Interests),
		GeneratedAt:    e.now(),
	}

	ranked, err := e.browsePersonalized(snap, ep, enrolled)
	if err != nil {
		telemetry.Error("recommendations.pipeline_failed", map[string]any{
			"learner_id": ep.LearnerID,
			"mode":       string(ModeBrowse),
			"error":      err,
		})
		ranked = nil
	}
	if len(ranked) > 0 {
		res.Status = StatusOK
		res.Source = SourcePersonalized
		res.Items = toItems(ranked)
		res.HasRecommendations = true
		return res
	}

	popular := PopularFallback(snap.Catalog, enrolled, e.fallbackLimit())
	res.Status = StatusFallback
	res.Source = SourcePopular
	res.Items = toItems(popular)
	res.HasRecommendations = len(res.Items) > 0
	return res
}

func (e Engine) browsePersonalized(snap Snapshot, ep EffectiveProfile, enrolled map[string]struct{}) (ranked []ScoredCandidate, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("browse pipeline panic: %v\n%s", rec, debug.Stack())
		}
	}()

	cands := FilterCandidates(snap.Catalog, enrolled, ep.Level, ModeBrowse, ep.Interests)
	score := e.score()
	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		scored = append(scored, score(c, ep, ModeBrowse, snap.Enrolled))
	}
	return Rank(scored, ep, ModeBrowse, 0), nil
}

// Onboarding ranks up to the onboarding limit of courses that match the declared
// interests at exactly the declared level.
func (e Engine) Onboarding(snap Snapshot) Result {
	ep := DeclaredProfile(snap.Profile)
	res := Result{
		Mode:           ModeOnboarding,
		Items:          []Item{},
		EffectiveLevel: ep.Level,
		Interests:      interestLabels(ep.Interests),
		GeneratedAt:    e.now(),
	}

	if missing := missingFields(ep); len(missing) > 0 {
		res.Status = StatusIncompleteProfile
		res.MissingFields = missing
		res.Message = "Please complete your profile first: " + strings.Join(missing, ", ")
		return res
	}

	enrolled := enrolledSet(enrollments.CourseIDs(snap.Enrollments))
	cands := FilterCandidates(snap.Catalog, enrolled, ep.Level, ModeOnboarding, ep.Interests)
	score := e.score()
	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		scored = append(scored, score(c, ep, ModeOnboarding, nil))
	}
	ranked := Rank(scored, ep, ModeOnboarding, e.onboardingLimit())

	if len(ranked) == 0 {
		res.Status = StatusComingSoon
		res.Message = comingSoonMessage(res.Interests, ep.Level)
		return res
	}
	res.Status = StatusOK
	res.Source = SourcePersonalized
	res.Items = toItems(ranked)
	res.HasRecommendations = true
	return res
}

func missingFields(ep EffectiveProfile) []string {
	var missing []string
	if len(ep.Interests) == 0 {
		missing = append(missing, "interests")
	}
	if ep.Level == "" {
		missing = append(missing, "experienceLevel")
	}
	return missing
}

func comingSoonMessage(interests []string, level string) string {
	return fmt.Sprintf("We don't have %s courses for %s yet. New courses are coming soon!",
		displayLevel(level), strings.Join(interests, ", "))
}
