package courses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"learnpath-backend/internal/shared/storage/object"
	"learnpath-backend/internal/shared/telemetry"
)

// ErrInvalidCourse marks a catalog entry that fails validation.
var ErrInvalidCourse = errors.New("invalid course")

// ImportResult summarizes one catalog import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer loads catalog snapshots from an object store into a Repo.
type Importer struct {
	Store object.ObjectStore
	Repo  Repo
}

// Import reads a JSON array of courses stored under key and upserts every valid entry.
func (im *Importer) Import(ctx context.Context, key string) (ImportResult, error) {
	var result ImportResult
	rc, err := im.Store.Open(ctx, key)
	if err != nil {
		return result, fmt.Errorf("open catalog %s: %w", key, err)
	}
	defer rc.Close()

	var entries []Course
	if err := json.NewDecoder(rc).DecodeContext(ctx, &entries); err != nil {
		return result, fmt.Errorf("decode catalog %s: %w", key, err)
	}

	for i, entry := range entries {
		course, err := normalizeCourse(entry)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		if err := im.Repo.Upsert(ctx, course); err != nil {
			return result, err
		}
		result.Imported++
	}

	telemetry.Info("catalog.imported", map[string]any{
		"key":      key,
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
	return result, nil
}

// Export writes the published catalog as a JSON array under key.
func (im *Importer) Export(ctx context.Context, key string) (int, error) {
	list, err := im.Repo.ListPublished(ctx)
	if err != nil {
		return 0, err
	}
	payload, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode catalog: %w", err)
	}
	if _, err := im.Store.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return 0, fmt.Errorf("write catalog %s: %w", key, err)
	}
	telemetry.Info("catalog.exported", map[string]any{"key": key, "courses": len(list)})
	return len(list), nil
}

func normalizeCourse(c Course) (Course, error) {
	c.ID = strings.TrimSpace(c.ID)
	c.Title = strings.TrimSpace(c.Title)
	if c.ID == "" {
		return Course{}, fmt.Errorf("%w: id is required", ErrInvalidCourse)
	}
	if c.Title == "" {
		return Course{}, fmt.Errorf("%w: title is required for %s", ErrInvalidCourse, c.ID)
	}
	if c.Rating < 0 || c.Rating > 5 {
		return Course{}, fmt.Errorf("%w: rating %.2f out of range for %s", ErrInvalidCourse, c.Rating, c.ID)
	}
	if c.StudentCount < 0 {
		return Course{}, fmt.Errorf("%w: negative student count for %s", ErrInvalidCourse, c.ID)
	}
	if c.Difficulty != nil {
		if strings.TrimSpace(*c.Difficulty) == "" {
			c.Difficulty = nil
		} else {
			canonical, ok := CanonicalLevel(*c.Difficulty)
			if !ok {
				return Course{}, fmt.Errorf("%w: unknown difficulty %q for %s", ErrInvalidCourse, *c.Difficulty, c.ID)
			}
			c.Difficulty = Difficulty(canonical)
		}
	}
	tags := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	c.Tags = tags
	return c, nil
}
