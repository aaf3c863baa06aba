package recommendations

import (
	"time"

	"learnpath-backend/internal/courses"
	"learnpath-backend/internal/enrollments"
	"learnpath-backend/internal/learners"
)

// Mode selects the recommendation policy.
type Mode string

const (
	ModeBrowse     Mode = "BROWSE"
	ModeOnboarding Mode = "ONBOARDING"
)

// Status describes how a Result was produced.
type Status string

const (
	StatusOK                Status = "ok"
	StatusFallback          Status = "fallback"
	StatusComingSoon        Status = "coming_soon"
	StatusIncompleteProfile Status = "incomplete_profile"
)

// Source tells whether items were personalized or taken from the popularity list.
type Source string

const (
	SourcePersonalized Source = "personalized"
	SourcePopular      Source = "popular"
)

// Interest is one effective interest: Key is the normalized form used for matching.
type Interest struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Declared bool   `json:"declared"`
}

// EffectiveProfile is the learner view the filter and scorer work from.
type EffectiveProfile struct {
	LearnerID     string
	DisplayName   string
	Interests     []Interest
	Goals         []string
	Level         string
	LevelInferred bool
}

// Snapshot is everything one computation reads, fetched once per call.
type Snapshot struct {
	Profile     learners.Profile
	Enrollments []enrollments.Enrollment
	Enrolled    []courses.Course
	Catalog     []courses.Course
}

// ScoredCandidate is a course with its relevance score and justifications.
type ScoredCandidate struct {
	Course             courses.Course
	RelevanceScore     int
	InterestMatchScore int
	Reasons            []string

	fired signals
}

// signals records which scoring components contributed, for reason text.
type signals struct {
	interest    string
	levelDelta  int
	levelFit    bool
	rating      bool
	popularity  bool
	trending    bool
	progression string
	goal        string
	featured    bool
}

// Item is the view object returned to callers.
type Item struct {
	CourseID     string   `json:"courseId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Tags         []string `json:"tags"`
	Rating       float64  `json:"rating"`
	StudentCount int      `json:"studentCount"`
	Trending     bool     `json:"trending"`
	Featured     bool     `json:"featured"`
	Score        int      `json:"score"`
	Reasons      []string `json:"reasons"`
}

// Result is the outcome of one recommendation computation.
type Result struct {
	Mode               Mode      `json:"mode"`
	Status             Status    `json:"status"`
	Source             Source    `json:"source,omitempty"`
	Items              []Item    `json:"items"`
	HasRecommendations bool      `json:"hasRecommendations"`
	Message            string    `json:"message,omitempty"`
	MissingFields      []string  `json:"missingFields,omitempty"`
	EffectiveLevel     string    `json:"effectiveLevel,omitempty"`
	Interests          []string  `json:"interests,omitempty"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

func toItems(cands []ScoredCandidate) []Item {
	out := make([]Item, 0, len(cands))
	for _, c := range cands {
		tags := c.Course.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, Item{
			CourseID:     c.Course.ID,
			Title:        c.Course.Title,
			Description:  c.Course.Description,
			Category:     c.Course.Category,
			Level:        c.Course.Level(),
			Tags:         tags,
			Rating:       c.Course.Rating,
			StudentCount: c.Course.StudentCount,
			Trending:     c.Course.Trending,
			Featured:     c.Course.Featured,
			Score:        c.RelevanceScore,
			Reasons:      c.Reasons,
		})
	}
	return out
}

func interestLabels(interests []Interest) []string {
	out := make([]string, 0, len(interests))
	for _, in := range interests {
		out = append(out, in.Label)
	}
	return out
}
