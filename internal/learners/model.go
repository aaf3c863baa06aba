package learners

import "time"

// Profile is a learner's declared learning profile.
type Profile struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	Interests       []string  `json:"interests"`
	Goals           []string  `json:"goals"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	CareerGoal      string    `json:"careerGoal,omitempty"`
	LearningStyle   string    `json:"learningStyle,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
