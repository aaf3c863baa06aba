package enrollments

import (
	"context"
	"database/sql"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) ListByLearner(ctx context.Context, learnerID string) ([]Enrollment, error) {
	const query = `
SELECT learner_id, course_id, completed, enrolled_at
FROM enrollments
WHERE learner_id = $1
ORDER BY enrolled_at ASC, course_id ASC`
	rows, err := r.DB.QueryContext(ctx, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	out := []Enrollment{}
	for rows.Next() {
		var e Enrollment
		if err := rows.Scan(&e.LearnerID, &e.CourseID, &e.Completed, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return out, nil
}

func (r *PGRepo) Upsert(ctx context.Context, enrollment Enrollment) error {
	const query = `
INSERT INTO enrollments (learner_id, course_id, completed, enrolled_at)
VALUES ($1, $2, $3, COALESCE($4::timestamptz, now()))
ON CONFLICT (learner_id, course_id) DO UPDATE SET
  completed = EXCLUDED.completed`
	var enrolledAt any
	if !enrollment.EnrolledAt.IsZero() {
		enrolledAt = enrollment.EnrolledAt
	}
	_, err := r.DB.ExecContext(ctx, query, enrollment.LearnerID, enrollment.CourseID, enrollment.Completed, enrolledAt)
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	return nil
}
