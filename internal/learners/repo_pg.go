package learners

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetByID(ctx context.Context, learnerID string) (Profile, error) {
	const query = `
SELECT id, display_name, interests, goals, experience_level, career_goal, learning_style, created_at, updated_at
FROM learners
WHERE id = $1
LIMIT 1`
	var p Profile
	var interestsRaw, goalsRaw []byte
	var level, careerGoal, learningStyle sql.NullString
	err := r.DB.QueryRowContext(ctx, query, learnerID).Scan(
		&p.ID,
		&p.DisplayName,
		&interestsRaw,
		&goalsRaw,
		&level,
		&careerGoal,
		&learningStyle,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get learner: %w", err)
	}
	if err := decodeList(interestsRaw, &p.Interests); err != nil {
		return Profile{}, fmt.Errorf("decode interests: %w", err)
	}
	if err := decodeList(goalsRaw, &p.Goals); err != nil {
		return Profile{}, fmt.Errorf("decode goals: %w", err)
	}
	p.ExperienceLevel = level.String
	p.CareerGoal = careerGoal.String
	p.LearningStyle = learningStyle.String
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO learners (id, display_name, interests, goals, experience_level, career_goal, learning_style, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (id) DO UPDATE SET
  display_name = EXCLUDED.display_name,
  interests = EXCLUDED.interests,
  goals = EXCLUDED.goals,
  experience_level = EXCLUDED.experience_level,
  career_goal = EXCLUDED.career_goal,
  learning_style = EXCLUDED.learning_style,
  updated_at = now()`
	interests, err := encodeList(profile.Interests)
	if err != nil {
		return fmt.Errorf("encode interests: %w", err)
	}
	goals, err := encodeList(profile.Goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		profile.ID,
		profile.DisplayName,
		interests,
		goals,
		nullableString(profile.ExperienceLevel),
		nullableString(profile.CareerGoal),
		nullableString(profile.LearningStyle),
	)
	if err != nil {
		return fmt.Errorf("upsert learner: %w", err)
	}
	return nil
}

func encodeList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
