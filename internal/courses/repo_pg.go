package courses

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

type PGRepo struct {
	DB *sql.DB
}

const courseColumns = `id, title, description, category, difficulty, tags, rating, student_count, trending, featured, published, created_at, updated_at`

func (r *PGRepo) ListPublished(ctx context.Context) ([]Course, error) {
	query := `
SELECT ` + courseColumns + `
FROM courses
WHERE published = true
ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (r *PGRepo) GetByIDs(ctx context.Context, ids []string) ([]Course, error) {
	if len(ids) == 0 {
		return []Course{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `
SELECT ` + courseColumns + `
FROM courses
WHERE id IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get courses by id: %w", err)
	}
	defer rows.Close()
	return scanCourses(rows)
}

func (r *PGRepo) Upsert(ctx context.Context, course Course) error {
	const query = `
INSERT INTO courses (id, title, description, category, difficulty, tags, rating, student_count, trending, featured, published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  description = EXCLUDED.description,
  category = EXCLUDED.category,
  difficulty = EXCLUDED.difficulty,
  tags = EXCLUDED.tags,
  rating = EXCLUDED.rating,
  student_count = EXCLUDED.student_count,
  trending = EXCLUDED.trending,
  featured = EXCLUDED.featured,
  published = EXCLUDED.published,
  updated_at = now()`
	tags := course.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	var difficulty any
	if course.Difficulty != nil && strings.TrimSpace(*course.Difficulty) != "" {
		difficulty = strings.TrimSpace(*course.Difficulty)
	}
	_, err = r.DB.ExecContext(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		difficulty,
		tagsJSON,
		course.Rating,
		course.StudentCount,
		course.Trending,
		course.Featured,
		course.Published,
	)
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", course.ID, err)
	}
	return nil
}

func scanCourses(rows *sql.Rows) ([]Course, error) {
	out := []Course{}
	for rows.Next() {
		var c Course
		var difficulty sql.NullString
		var tagsRaw []byte
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Category,
			&difficulty,
			&tagsRaw,
			&c.Rating,
			&c.StudentCount,
			&c.Trending,
			&c.Featured,
			&c.Published,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		if difficulty.Valid {
			c.Difficulty = Difficulty(difficulty.String)
		}
		if len(tagsRaw) > 0 {
			if err := json.Unmarshal(tagsRaw, &c.Tags); err != nil {
				return nil, fmt.Errorf("decode tags for %s: %w", c.ID, err)
			}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}
