package events

import (
	"time"

	"github.com/google/uuid"
)

// Event records that a learner was shown recommendations.
type Event struct {
	ID                  string    `json:"id"`
	LearnerID           string    `json:"learnerId"`
	LearnerDisplayName  string    `json:"learnerDisplayName"`
	RecommendationCount int       `json:"recommendationCount"`
	Mode                string    `json:"mode"`
	Source              string    `json:"source"`
	CreatedAt           time.Time `json:"createdAt"`
}

// New stamps a fresh event with an ID and the current UTC time.
func New(learnerID, displayName, mode, source string, count int) Event {
	return Event{
		ID:                  uuid.NewString(),
		LearnerID:           learnerID,
		LearnerDisplayName:  displayName,
		RecommendationCount: count,
		Mode:                mode,
		Source:              source,
		CreatedAt:           time.Now().UTC(),
	}
}
