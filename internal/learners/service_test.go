package learners

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileNormalizesAndCreates(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	got, err := svc.UpdateProfile(context.Background(), "learner-1", ProfileUpdate{
		DisplayName:     " Ada ",
		Interests:       []string{"python", " Data Science ", "Python", ""},
		Goals:           []string{"get a data job"},
		ExperienceLevel: "intermediate",
	})
	require.NoError(t, err)

	assert.Equal(t, "learner-1", got.ID)
	assert.Equal(t, "Ada", got.DisplayName)
	assert.Equal(t, []string{"Data Science", "python"}, got.Interests)
	assert.Equal(t, "Intermediate", got.ExperienceLevel)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUpdateProfileKeepsDisplayNameWhenOmitted(t *testing.T) {
	repo := NewMemoryRepo(Profile{ID: "learner-1", DisplayName: "Grace"})
	svc := NewService(repo)

	got, err := svc.UpdateProfile(context.Background(), "learner-1", ProfileUpdate{
		Interests:       []string{"design"},
		ExperienceLevel: "Beginner",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.DisplayName)
}

func TestUpdateProfileValidation(t *testing.T) {
	tooMany := make([]string, 21)
	for i := range tooMany {
		tooMany[i] = string(rune('a'+i)) + "-topic"
	}

	cases := []struct {
		name  string
		in    ProfileUpdate
		field string
		tag   string
	}{
		{name: "no interests", in: ProfileUpdate{ExperienceLevel: "Beginner"}, field: "interests", tag: "min"},
		{name: "too many interests", in: ProfileUpdate{Interests: tooMany, ExperienceLevel: "Beginner"}, field: "interests", tag: "max"},
		{name: "missing level", in: ProfileUpdate{Interests: []string{"go"}}, field: "experienceLevel", tag: "required"},
		{name: "unknown level", in: ProfileUpdate{Interests: []string{"go"}, ExperienceLevel: "guru"}, field: "experienceLevel", tag: "level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(NewMemoryRepo())
			_, err := svc.UpdateProfile(context.Background(), "learner-1", tc.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
			assert.Equal(t, tc.tag, verr.Fields[0].Tag)
		})
	}
}

func TestGetByIDUnknownLearner(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.GetByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
