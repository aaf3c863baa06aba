package learners

import (
	"context"
	"errors"
	"sort"
	"strings"

	"learnpath-backend/internal/courses"
)

// ProfileUpdate is the learner-editable part of a profile.
type ProfileUpdate struct {
	DisplayName     string   `json:"displayName" validate:"max=120"`
	Interests       []string `json:"interests" validate:"min=1,max=20,dive,required,max=80"`
	Goals           []string `json:"goals" validate:"max=20,dive,required,max=200"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,level"`
	CareerGoal      string   `json:"careerGoal" validate:"max=200"`
	LearningStyle   string   `json:"learningStyle" validate:"max=80"`
}

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetByID(ctx context.Context, learnerID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("learners service not configured")
	}
	if strings.TrimSpace(learnerID) == "" {
		return Profile{}, errors.New("learner id is required")
	}
	return s.Repo.GetByID(ctx, learnerID)
}

// UpdateProfile validates and stores the learner's profile, creating it on first write.
func (s *Service) UpdateProfile(ctx context.Context, learnerID string, update ProfileUpdate) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("learners service not configured")
	}
	if strings.TrimSpace(learnerID) == "" {
		return Profile{}, errors.New("learner id is required")
	}

	update.DisplayName = strings.TrimSpace(update.DisplayName)
	update.Interests = cleanList(update.Interests)
	update.Goals = cleanList(update.Goals)
	update.ExperienceLevel = strings.TrimSpace(update.ExperienceLevel)
	update.CareerGoal = strings.TrimSpace(update.CareerGoal)
	update.LearningStyle = strings.TrimSpace(update.LearningStyle)
	if err := validateStruct(update); err != nil {
		return Profile{}, err
	}
	level, _ := courses.CanonicalLevel(update.ExperienceLevel)

	profile, err := s.Repo.GetByID(ctx, learnerID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	profile.ID = learnerID
	if update.DisplayName != "" {
		profile.DisplayName = update.DisplayName
	}
	profile.Interests = update.Interests
	profile.Goals = update.Goals
	profile.ExperienceLevel = level
	profile.CareerGoal = update.CareerGoal
	profile.LearningStyle = update.LearningStyle

	if err := s.Repo.Upsert(ctx, profile); err != nil {
		return Profile{}, err
	}
	return s.Repo.GetByID(ctx, learnerID)
}

// cleanList trims entries, drops blanks and case-insensitive duplicates, and sorts the result.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	sort.Strings(out)
	return out
}
