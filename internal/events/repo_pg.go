package events

import (
	"context"
	"database/sql"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Append(ctx context.Context, event Event) error {
	const query = `
INSERT INTO recommendation_events (id, learner_id, learner_display_name, recommendation_count, mode, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`
	_, err := r.DB.ExecContext(ctx, query,
		event.ID,
		event.LearnerID,
		event.LearnerDisplayName,
		event.RecommendationCount,
		event.Mode,
		event.Source,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append recommendation event: %w", err)
	}
	return nil
}

func (r *PGRepo) ListByLearner(ctx context.Context, learnerID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT id, learner_id, learner_display_name, recommendation_count, mode, source, created_at
FROM recommendation_events
WHERE learner_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, learnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendation events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.LearnerID, &e.LearnerDisplayName, &e.RecommendationCount, &e.Mode, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendation events: %w", err)
	}
	return out, nil
}
